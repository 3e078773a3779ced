package parser

import (
	"strings"
)

// DismissalKind 出局方式
type DismissalKind int

const (
	DismissalUnknown DismissalKind = iota
	DismissalNotOut
	DismissalDidNotBat
	Caught
	Bowled
	LBW
	Stumped
	RunOut
	RetiredHurt
	RetiredOut
	HitWicket
	ObstructingField
)

// dismissalIndicator 出局方式在文本中的标识
type dismissalIndicator struct {
	kind DismissalKind
	text string
}

// 标识顺序决定同一位置出现多个标识时的结果
var dismissalIndicators = []dismissalIndicator{
	{Caught, " c "},
	{Bowled, " b "},
	{LBW, " lbw "},
	{Stumped, " st "},
	{RunOut, " run out"},
	{RetiredHurt, " Retired hurt"},
	{RetiredOut, " Retired out"},
	{HitWicket, " Hit Wicket"},
	{ObstructingField, "obstructing the field"},
}

var dismissalNames = map[DismissalKind]string{
	DismissalUnknown:   "unknown",
	DismissalNotOut:    "not out",
	DismissalDidNotBat: "did not bat",
	Caught:             "caught",
	Bowled:             "bowled",
	LBW:                "lbw",
	Stumped:            "stumped",
	RunOut:             "run out",
	RetiredHurt:        "retired hurt",
	RetiredOut:         "retired out",
	HitWicket:          "hit wicket",
	ObstructingField:   "obstructing the field",
}

// String 实现fmt.Stringer
func (k DismissalKind) String() string {
	return dismissalNames[k]
}

// IsWicket 是否为出局
func (k DismissalKind) IsWicket() bool {
	return k >= Caught && k != RetiredHurt
}

// FindDismissal 查找文本中最早出现的出局标识
// 返回标识位置和出局方式,没有标识时返回 -1
func FindDismissal(text string) (int, DismissalKind) {
	earliest := -1
	kind := DismissalUnknown
	for _, ind := range dismissalIndicators {
		idx := strings.Index(text, ind.text)
		if idx == -1 {
			continue
		}
		if earliest == -1 || idx < earliest {
			earliest = idx
			kind = ind.kind
		}
	}
	return earliest, kind
}

// SplitDismissal 将 "J Smith c A Kumar b R Singh" 拆分为名称和出局描述
// 没有出局标识时status为空
func SplitDismissal(text string) (name, status string, kind DismissalKind) {
	idx, kind := FindDismissal(text)
	if idx == -1 {
		return strings.TrimSpace(text), "", DismissalUnknown
	}
	return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx:]), kind
}

// Dismissal 出局描述的分类结果
type Dismissal struct {
	Kind    DismissalKind
	Fielder string // 接球/跑动出局/擒杀的防守球员,未标准化
	Bowler  string
}

// ClassifyStatus 分类出局描述
func ClassifyStatus(status string) Dismissal {
	status = strings.TrimSpace(status)
	switch {
	case status == "":
		return Dismissal{Kind: DismissalDidNotBat}
	case strings.EqualFold(status, "not out"):
		return Dismissal{Kind: DismissalNotOut}
	}

	// 标识以空格开头,在前面补一个空格以匹配首个单词
	_, kind := FindDismissal(" " + status)
	d := Dismissal{Kind: kind}

	switch kind {
	case Caught:
		d.Fielder, d.Bowler = splitFielderBowler(status, "c ")
		if d.Fielder == "&" {
			d.Fielder = d.Bowler
		}
	case Stumped:
		d.Fielder, d.Bowler = splitFielderBowler(status, "st ")
	case Bowled:
		d.Bowler = strings.TrimSpace(strings.TrimPrefix(status, "b "))
	case LBW:
		if idx := strings.Index(status, " b "); idx != -1 {
			d.Bowler = strings.TrimSpace(status[idx+3:])
		}
	case RunOut:
		d.Fielder = runOutFielders(status)
	case DismissalUnknown:
		if strings.Contains(strings.ToLower(status), "not out") {
			d.Kind = DismissalNotOut
		}
	}
	return d
}

// splitFielderBowler 解析 "<prefix>X b Y"
func splitFielderBowler(status, prefix string) (fielder, bowler string) {
	if len(status) < len(prefix) || !strings.EqualFold(status[:len(prefix)], prefix) {
		return "", ""
	}
	rest := status[len(prefix):]
	idx := strings.Index(rest, " b ")
	if idx == -1 {
		return strings.TrimSpace(rest), ""
	}
	return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+3:])
}

// runOutFielders 返回 "run out (A/B)" 括号中的内容
func runOutFielders(status string) string {
	start := strings.Index(status, "run out (")
	if start == -1 {
		return ""
	}
	rest := status[start+len("run out ("):]
	end := strings.Index(rest, ")")
	if end == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}
