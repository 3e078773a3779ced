package crawlers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// 未找到球队名称时的默认值
const (
	DefaultTeam1 = "Team 1"
	DefaultTeam2 = "Team 2"
)

// ExtractMatchInfo 提取比赛基本信息
// 优先从比赛标题拆分球队,标题不存在时从球队名称元素重建
func ExtractMatchInfo(doc *goquery.Document, reg *dom.Registry) models.MatchInfo {
	info := models.MatchInfo{Team1: DefaultTeam1, Team2: DefaultTeam2}

	if title := reg.Find(doc, dom.MatchTitle); title.Found() {
		info.MatchTitle = title.Text()
		info.Team1, info.Team2 = TeamsFromTitle(info.MatchTitle)
		utils.Debugf("比赛标题: %q", info.MatchTitle)
	} else if teams := reg.Find(doc, dom.TeamNames); teams.Found() {
		info.Team1 = firstNonEmpty(dom.Text(teams.Selection.Eq(0)), DefaultTeam1)
		info.Team2 = firstNonEmpty(dom.Text(teams.Selection.Eq(1)), DefaultTeam2)
		info.MatchTitle = info.Team1 + " vs " + info.Team2
		utils.Warnf("未找到比赛标题,已从球队名称重建: %q", info.MatchTitle)
	} else {
		utils.Warnf("未找到比赛标题和球队名称,使用默认值")
	}

	if date := reg.Find(doc, dom.MatchDate); date.Found() {
		info.MatchDate = date.Text()
	} else {
		utils.Debugf("未找到比赛日期")
	}

	return info
}

// TeamsFromTitle 从 "A vs B" 形式的标题中拆分球队
func TeamsFromTitle(title string) (string, string) {
	if !strings.Contains(title, "vs") {
		return DefaultTeam1, DefaultTeam2
	}
	parts := strings.Split(title, "vs")
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// ExtractInnings 从当前渲染的DOM中提取一局数据
// 任何目标未找到时使用空值
func ExtractInnings(doc *goquery.Document, reg *dom.Registry, p *parser.Parser, teamName string) models.TeamInnings {
	innings := models.NewTeamInnings(teamName)

	if batting := reg.Find(doc, dom.BattingTable); batting.Found() {
		innings.BattingRecords = p.ParseBattingRows(batting)
	} else {
		utils.Warnf("[%s] 未找到击球表", teamName)
	}

	if bowling := reg.Find(doc, dom.BowlingTable); bowling.Found() {
		innings.BowlingRecords = p.ParseBowlingRows(bowling)
	} else {
		utils.Warnf("[%s] 未找到投球表", teamName)
	}

	innings.Extras = findText(doc, reg, dom.ExtrasRow, teamName)
	innings.Total = findText(doc, reg, dom.TotalRow, teamName)
	innings.FallOfWickets = findText(doc, reg, dom.FallOfWicketsRow, teamName)

	utils.Infof("[%s] 击球%d条, 投球%d条", teamName, len(innings.BattingRecords), len(innings.BowlingRecords))
	return innings
}

func findText(doc *goquery.Document, reg *dom.Registry, target dom.Target, teamName string) string {
	result := reg.Find(doc, target)
	if !result.Found() {
		utils.Warnf("[%s] 未找到 %s", teamName, target)
		return ""
	}
	return result.Text()
}

// ExtractManOfTheMatch 提取最佳球员
// 球员名称后的球队括号会被去除,未找到时返回nil
func ExtractManOfTheMatch(doc *goquery.Document, reg *dom.Registry) *string {
	result := reg.Find(doc, dom.ManOfTheMatch)
	if !result.Found() {
		utils.Warnf("未找到最佳球员")
		return nil
	}

	text := result.Text()
	if result.Strategy.Generic {
		text = strings.Replace(text, "MOM", "", 1)
	}
	name := strings.TrimSpace(strings.SplitN(text, "(", 2)[0])
	utils.Debugf("最佳球员: %q (策略: %s)", name, result.Strategy.Name)
	return &name
}

func firstNonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
