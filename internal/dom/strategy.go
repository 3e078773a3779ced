package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy 单个查询策略
type Strategy struct {
	Name     string // 日志中显示的名称
	Selector string // 在文档快照上执行的CSS选择器

	// Filter 可选的元素谓词,对Selector结果逐个过滤
	Filter func(s *goquery.Selection) bool

	// Rows 非空时,以第一个匹配元素为锚点,结果为锚点内的行
	// 锚点存在即视为命中(即使行为空)
	Rows string

	// MinMatches 命中所需最少元素数 (默认1)
	MinMatches int

	Generic bool    // 通用结构回退
	Variant Variant // 投球表结构
}

func (s Strategy) minMatches() int {
	if s.MinMatches <= 0 {
		return 1
	}
	return s.MinMatches
}

// evaluate 执行策略,返回(基础集合, 结果集合, 是否命中)
func (s Strategy) evaluate(doc *goquery.Document) (*goquery.Selection, *goquery.Selection, bool) {
	base := doc.Find(s.Selector)
	matched := base
	if s.Filter != nil {
		matched = base.FilterFunction(func(_ int, sel *goquery.Selection) bool {
			return s.Filter(sel)
		})
	}

	if s.Rows != "" {
		anchor := matched.First()
		if anchor.Length() == 0 {
			return base, matched, false
		}
		return base, anchor.Find(s.Rows), true
	}

	return base, matched, matched.Length() >= s.minMatches()
}

// Text 返回第一个元素的文本内容,去除首尾空白并合并连续空白
func Text(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(s.First().Text()), " ")
}

// textContains 元素文本包含子串
func textContains(sub string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		return strings.Contains(Text(s), sub)
	}
}

// textEquals 元素文本等于给定值
func textEquals(value string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		return Text(s) == value
	}
}

// textHasPrefix 元素文本以前缀开头且长度超过minLen
func textHasPrefix(prefix string, minLen int) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		return strings.HasPrefix(text, prefix) && len(text) > minLen
	}
}

// hasMoreRows 表格行数超过n
func hasMoreRows(n int) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		return s.Find("tr").Length() > n
	}
}
