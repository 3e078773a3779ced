package scoring

import (
	"regexp"
	"strings"

	"github.com/RecoveryAshes/iplscorecard/internal/parser"
)

// 防守得分
const (
	CatchPoints           = 15
	RunOutPrimaryPoints   = 6  // 合作跑动出局,第一名防守球员
	RunOutSecondaryPoints = 4  // 合作跑动出局,第二名防守球员
	RunOutSolePoints      = 10 // 单人跑动出局
	StumpingPoints        = 10

	substituteMarker = "(Sub)"
)

var runOutRegex = regexp.MustCompile(`run out \(([^)]+)\)`)

// FieldingCredit 防守得分记录
type FieldingCredit struct {
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
}

// fieldingRule 单条防守规则,不匹配时返回nil
type fieldingRule func(status string) []FieldingCredit

// 各规则独立检查同一出局描述
var fieldingRules = []fieldingRule{
	catchRule,
	runOutRule,
	stumpingRule,
}

// ResolveFieldingCredits 从出局描述中解析防守得分
func ResolveFieldingCredits(status string) []FieldingCredit {
	var credits []FieldingCredit
	for _, rule := range fieldingRules {
		credits = append(credits, rule(status)...)
	}
	return credits
}

// catchRule "c X b Y" -> X 15分, "c & b Y" -> Y 15分
func catchRule(status string) []FieldingCredit {
	if !strings.HasPrefix(status, "c ") || !strings.Contains(status, " b ") {
		return nil
	}

	segment := strings.SplitN(status, " b ", 2)
	fielder := strings.TrimSpace(segment[0][2:])
	if fielder == "&" {
		fielder = segment[1]
	}

	return credit(fielder, CatchPoints)
}

// runOutRule "run out (A/B)" -> A 6分, B 4分; "run out (A)" -> A 10分
func runOutRule(status string) []FieldingCredit {
	m := runOutRegex.FindStringSubmatch(status)
	if m == nil {
		return nil
	}

	fielders := m[1]
	if !strings.Contains(fielders, "/") {
		return credit(fielders, RunOutSolePoints)
	}

	parts := strings.SplitN(fielders, "/", 2)
	return append(credit(parts[0], RunOutPrimaryPoints), credit(parts[1], RunOutSecondaryPoints)...)
}

// stumpingRule "st X b Y" -> X 10分
func stumpingRule(status string) []FieldingCredit {
	if !strings.HasPrefix(strings.ToLower(status), "st ") || !strings.Contains(status, " b ") {
		return nil
	}

	segment := strings.SplitN(status, " b ", 2)
	return credit(segment[0][3:], StumpingPoints)
}

// credit 处理替补标记并标准化名称
func credit(fielder string, points int) []FieldingCredit {
	if idx := strings.Index(fielder, substituteMarker); idx != -1 {
		fielder = fielder[idx+len(substituteMarker):]
	}

	name := parser.NormalizeName(fielder)
	if name == "" {
		return nil
	}
	return []FieldingCredit{{PlayerName: name, Points: points}}
}
