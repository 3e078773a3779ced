package dom

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// ActiveTabClass 实时页面上的激活标签标记
const ActiveTabClass = "ap-active-team"

// Registry 语义目标到查询策略链的映射
type Registry struct {
	chains map[Target][]Strategy
}

// Result 查询结果
type Result struct {
	Target    Target
	Strategy  *Strategy          // 命中的策略,未命中时为nil
	Rank      int                // 命中策略在链中的位置
	Selection *goquery.Selection // 命中的元素集合
	base      *goquery.Selection
}

// Found 是否命中
func (r Result) Found() bool {
	return r.Strategy != nil
}

// Degraded 是否使用了回退策略
func (r Result) Degraded() bool {
	return r.Found() && r.Rank > 0
}

// Len 命中元素数
func (r Result) Len() int {
	if r.Selection == nil {
		return 0
	}
	return r.Selection.Length()
}

// Text 第一个命中元素的文本
func (r Result) Text() string {
	if !r.Found() {
		return ""
	}
	return Text(r.Selection)
}

// Each 遍历命中元素
func (r Result) Each(fn func(i int, s *goquery.Selection)) {
	if r.Selection == nil {
		return
	}
	r.Selection.Each(fn)
}

// Variant 命中策略的投球表结构
func (r Result) Variant() Variant {
	if r.Strategy == nil {
		return VariantNone
	}
	return r.Strategy.Variant
}

// Locate 返回第i个命中元素在实时页面中的定位器
// 基于行的策略无法定位
func (r Result) Locate(i int) (Locator, bool) {
	if !r.Found() || r.Strategy.Rows != "" || i < 0 || i >= r.Len() {
		return Locator{}, false
	}
	idx := r.base.IndexOfSelection(r.Selection.Eq(i))
	if idx < 0 {
		return Locator{}, false
	}
	return Locator{Selector: r.Strategy.Selector, Index: idx}, true
}

// NewRegistry 创建使用默认策略的注册表
func NewRegistry() *Registry {
	r := &Registry{chains: make(map[Target][]Strategy)}
	for target, chain := range defaultChains() {
		r.chains[target] = chain
	}
	return r
}

// Register 替换目标的策略链
func (r *Registry) Register(target Target, chain ...Strategy) {
	r.chains[target] = append([]Strategy(nil), chain...)
}

// Chain 返回目标的策略链
func (r *Registry) Chain(target Target) []Strategy {
	return r.chains[target]
}

// Find 按优先级依次执行策略,返回第一个命中的结果
// 未命中时返回Found()==false的结果,从不panic
func (r *Registry) Find(doc *goquery.Document, target Target) Result {
	result := Result{Target: target, Rank: -1}
	if doc == nil {
		return result
	}

	chain := r.chains[target]
	for i := range chain {
		strategy := &chain[i]
		base, matched, ok := strategy.evaluate(doc)
		if !ok {
			continue
		}

		if i > 0 {
			utils.Logger.Warn().
				Str("target", target.String()).
				Str("strategy", strategy.Name).
				Int("rank", i).
				Bool("generic", strategy.Generic).
				Msg("精确选择器未命中,已降级")
		} else {
			utils.Debugf("目标 %s 命中策略 %s (%d个元素)", target, strategy.Name, matched.Length())
		}

		result.Strategy = strategy
		result.Rank = i
		result.Selection = matched
		result.base = base
		return result
	}

	utils.Debugf("目标 %s 所有策略均未命中", target)
	return result
}
