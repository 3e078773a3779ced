package dom

// Target 语义目标
// 每个目标对应一组按优先级排列的查询策略
type Target int

const (
	ActiveInningsTabs Target = iota // 局标签链接
	BattingTable                    // 击球表行
	BowlingTable                    // 投球表行
	ExtrasRow                       // 额外得分行
	TotalRow                        // 总分行
	FallOfWicketsRow                // 出局顺序
	ScorecardTabLink                // 计分卡标签
	MatchTitle                      // 比赛标题
	ManOfTheMatch                   // 最佳球员
	MatchDate                       // 比赛日期
	TeamNames                       // 球队名称元素
)

var targetNames = map[Target]string{
	ActiveInningsTabs: "ActiveInningsTabs",
	BattingTable:      "BattingTable",
	BowlingTable:      "BowlingTable",
	ExtrasRow:         "ExtrasRow",
	TotalRow:          "TotalRow",
	FallOfWicketsRow:  "FallOfWicketsRow",
	ScorecardTabLink:  "ScorecardTabLink",
	MatchTitle:        "MatchTitle",
	ManOfTheMatch:     "ManOfTheMatch",
	MatchDate:         "MatchDate",
	TeamNames:         "TeamNames",
}

// String 实现fmt.Stringer
func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return "Unknown"
}

// AllTargets 返回所有语义目标
func AllTargets() []Target {
	return []Target{
		ActiveInningsTabs, BattingTable, BowlingTable, ExtrasRow, TotalRow,
		FallOfWicketsRow, ScorecardTabLink, MatchTitle, ManOfTheMatch,
		MatchDate, TeamNames,
	}
}

// Variant 投球表结构
// 不同的表结构对应不同的列位置
type Variant int

const (
	VariantNone       Variant = iota
	VariantPrecise            // .ap-scorecard-outer 结构: 局数@2 ... 零分球@7
	VariantClassTable         // mc-bowling-table / bowling-table: 局数@1 ... 零分球@6或最后一列
	VariantGeneric            // 通用表: 局数@1 ... 零分球@6(存在时)
)

// String 实现fmt.Stringer
func (v Variant) String() string {
	switch v {
	case VariantPrecise:
		return "precise"
	case VariantClassTable:
		return "class-table"
	case VariantGeneric:
		return "generic"
	default:
		return "none"
	}
}

// Locator 在实时页面中定位元素
// document.querySelectorAll(Selector)[Index]
type Locator struct {
	Selector string
	Index    int
}
