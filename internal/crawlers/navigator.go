package crawlers

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// NavState 局标签导航状态
type NavState int

const (
	StateUnstarted NavState = iota
	StateActiveTabIdentified
	StateActiveTabExtracted
	StateOtherTabClicked
	StateOtherTabExtracted
	StateSwitchFailed
	StateReconciled
	StateDone
)

var navStateNames = [...]string{
	StateUnstarted:           "Unstarted",
	StateActiveTabIdentified: "ActiveTabIdentified",
	StateActiveTabExtracted:  "ActiveTabExtracted",
	StateOtherTabClicked:     "OtherTabClicked",
	StateOtherTabExtracted:   "OtherTabExtracted",
	StateSwitchFailed:        "SwitchFailed",
	StateReconciled:          "Reconciled",
	StateDone:                "Done",
}

// String 实现fmt.Stringer
func (s NavState) String() string {
	if s >= 0 && int(s) < len(navStateNames) {
		return navStateNames[s]
	}
	return fmt.Sprintf("NavState(%d)", int(s))
}

// DefaultActiveTab 无法判断激活标签时默认第二局已渲染
const DefaultActiveTab = 1

// Sleeper 等待页面渲染
type Sleeper func(ctx context.Context, d time.Duration)

// SleepContext 固定时长等待,ctx取消时提前返回
func SleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Navigator 两局数据的提取状态机
// 先提取当前激活的局,再切换到另一局,最后检查切换是否生效
type Navigator struct {
	registry    *dom.Registry
	parser      *parser.Parser
	settleDelay time.Duration
	sleep       Sleeper
	shots       *Screenshotter

	state   NavState
	history []NavState
}

// NewNavigator 创建导航器
func NewNavigator(reg *dom.Registry, p *parser.Parser, settleDelay time.Duration) *Navigator {
	return &Navigator{
		registry:    reg,
		parser:      p,
		settleDelay: settleDelay,
		sleep:       SleepContext,
		state:       StateUnstarted,
		history:     []NavState{StateUnstarted},
	}
}

// WithSleeper 替换等待函数
func (n *Navigator) WithSleeper(s Sleeper) *Navigator {
	n.sleep = s
	return n
}

// WithScreenshotter 启用调试截图
func (n *Navigator) WithScreenshotter(s *Screenshotter) *Navigator {
	n.shots = s
	return n
}

// State 当前状态
func (n *Navigator) State() NavState {
	return n.state
}

// History 经过的所有状态
func (n *Navigator) History() []NavState {
	return append([]NavState(nil), n.history...)
}

func (n *Navigator) transition(to NavState) {
	utils.Logger.Debug().
		Str("from", n.state.String()).
		Str("to", to.String()).
		Msg("局标签导航状态变更")
	n.state = to
	n.history = append(n.history, to)
}

// InningsLabel 局标签名称: 第一局 "<team1> 1st",第二局 "<team2> 2nd"
func InningsLabel(teams [2]string, slot int) string {
	if slot == 0 {
		return teams[0] + " 1st"
	}
	return teams[1] + " 2nd"
}

// Extract 提取两局数据,按局序返回
// 只有首次读取DOM失败才返回错误,切换失败用空占位局代替
func (n *Navigator) Extract(ctx context.Context, page Page, teams [2]string) ([2]models.TeamInnings, error) {
	var innings [2]models.TeamInnings

	n.shots.Capture(ctx, page, "initial_innings_state.png")

	doc, err := page.Document(ctx)
	if err != nil {
		return innings, fmt.Errorf("读取页面DOM失败: %w", err)
	}

	tabs := n.registry.Find(doc, dom.ActiveInningsTabs)
	activeSlot := n.identifyActiveTab(tabs)
	otherSlot := 1 - activeSlot
	n.transition(StateActiveTabIdentified)

	innings[activeSlot] = ExtractInnings(doc, n.registry, n.parser, InningsLabel(teams, activeSlot))
	n.transition(StateActiveTabExtracted)

	otherLabel := InningsLabel(teams, otherSlot)
	if n.switchTo(ctx, page, tabs, otherSlot) {
		n.transition(StateOtherTabClicked)
		n.sleep(ctx, n.settleDelay)
		n.shots.Capture(ctx, page, fmt.Sprintf("after_switch_to_tab_%d.png", otherSlot+1))

		if otherDoc, err := page.Document(ctx); err != nil {
			utils.Warnf("切换到 %s 后读取DOM失败,使用空占位: %v", otherLabel, err)
			innings[otherSlot] = models.NewTeamInnings(otherLabel)
			n.transition(StateSwitchFailed)
		} else {
			innings[otherSlot] = ExtractInnings(otherDoc, n.registry, n.parser, otherLabel)
			n.transition(StateOtherTabExtracted)
		}
	} else {
		utils.Warnf("切换到第%d局标签失败,%s 使用空占位", otherSlot+1, otherLabel)
		innings[otherSlot] = models.NewTeamInnings(otherLabel)
		n.transition(StateSwitchFailed)
	}

	Reconcile(&innings, activeSlot)
	n.transition(StateReconciled)

	n.transition(StateDone)
	return innings, nil
}

// identifyActiveTab 判断初始激活的局标签
// 标签少于2个或没有激活标记时默认第二局
func (n *Navigator) identifyActiveTab(tabs dom.Result) int {
	if tabs.Len() < 2 {
		utils.Warnf("局标签不足2个(找到%d个),默认第%d局已激活", tabs.Len(), DefaultActiveTab+1)
		return DefaultActiveTab
	}

	active := -1
	tabs.Each(func(i int, s *goquery.Selection) {
		if active < 0 && s.HasClass(dom.ActiveTabClass) {
			active = i
		}
	})

	switch {
	case active < 0:
		utils.Warnf("没有局标签带有激活标记,默认第%d局已激活", DefaultActiveTab+1)
		return DefaultActiveTab
	case active == 0:
		utils.Infof("当前激活: 第1局 (%s)", dom.Text(tabs.Selection.Eq(0)))
		return 0
	default:
		utils.Infof("当前激活: 第%d局 (%s)", active+1, dom.Text(tabs.Selection.Eq(active)))
		return 1
	}
}

// switchTo 点击另一局的标签
func (n *Navigator) switchTo(ctx context.Context, page Page, tabs dom.Result, slot int) bool {
	loc, ok := tabs.Locate(slot)
	if !ok {
		utils.Warnf("无法定位第%d局标签", slot+1)
		return false
	}

	clicked, err := page.Click(ctx, loc)
	if err != nil {
		utils.Warnf("点击第%d局标签出错: %v", slot+1, err)
		return false
	}
	if !clicked {
		utils.Warnf("第%d局标签不存在 [%s #%d]", slot+1, loc.Selector, loc.Index)
		return false
	}
	utils.Debugf("已点击第%d局标签 [%s #%d]", slot+1, loc.Selector, loc.Index)
	return true
}

// Reconcile 检查两局击球记录是否完全相同
// 相同说明标签切换没有生效,清空非初始激活局的记录
func Reconcile(innings *[2]models.TeamInnings, activeSlot int) bool {
	first, second := innings[0].BattingRecords, innings[1].BattingRecords
	if len(first) == 0 || !reflect.DeepEqual(first, second) {
		return false
	}

	cleared := 1 - activeSlot
	utils.Logger.Warn().
		Str("kept", innings[activeSlot].TeamName).
		Str("cleared", innings[cleared].TeamName).
		Int("records", len(first)).
		Msg("两局击球记录完全相同,标签切换可能未生效,已清空重复局")
	innings[cleared].ClearRecords()
	return true
}
