package parser

import (
	"regexp"
	"strconv"
)

var (
	leadingIntRegex   = regexp.MustCompile(`^\s*[+-]?\d+`)
	leadingFloatRegex = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)`)
)

// ParseInt 解析文本开头的整数,"45*" -> 45
// 没有数字时返回0 ("-", "", "DNB")
func ParseInt(text string) int {
	m := leadingIntRegex.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(trimSpaceLeft(m))
	if err != nil {
		return 0
	}
	return n
}

// ParseFloat 解析文本开头的浮点数,失败返回0
func ParseFloat(text string) float64 {
	m := leadingFloatRegex.FindString(text)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(trimSpaceLeft(m), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseCount 解析非负计数
func parseCount(text string) int {
	if n := ParseInt(text); n > 0 {
		return n
	}
	return 0
}

func trimSpaceLeft(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
		s = s[1:]
	}
	return s
}
