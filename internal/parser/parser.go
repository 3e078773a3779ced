package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// 击球表列位置
const (
	statusColumn = 1
	runsColumn   = 2
	ballsColumn  = 3
	foursColumn  = 4
	sixesColumn  = 5

	minBattingCells = 5
)

// 投球表列位置
type bowlingColumns struct {
	minCells int
	overs    int
	maidens  int
	runs     int
	wickets  int
	dots     int // -1 表示取最后一列
}

var bowlingLayouts = map[dom.Variant]bowlingColumns{
	dom.VariantPrecise:    {minCells: 7, overs: 2, maidens: 3, runs: 4, wickets: 5, dots: 7},
	dom.VariantClassTable: {minCells: 5, overs: 1, maidens: 2, runs: 3, wickets: 4, dots: 6},
	dom.VariantGeneric:    {minCells: 5, overs: 1, maidens: 2, runs: 3, wickets: 4, dots: 6},
}

// Parser 行解析器
type Parser struct {
	Correction StrikeRateCorrection
}

// New 创建解析器
func New(correction StrikeRateCorrection) *Parser {
	return &Parser{Correction: correction}
}

// Default 使用默认修正参数的解析器
func Default() *Parser {
	return New(DefaultStrikeRateCorrection())
}

// ParseBattingRow 解析击球行
// 非球员行(列数不足/名称为空/TOTAL/EXTRAS)返回false
func (p *Parser) ParseBattingRow(row Row) (models.BattingRecord, bool) {
	if len(row.Cells) < minBattingCells {
		return models.BattingRecord{}, false
	}

	lead := strings.TrimSpace(row.Lead)
	upper := strings.ToUpper(lead)
	if lead == "" || strings.Contains(upper, "TOTAL") || strings.Contains(upper, "EXTRAS") {
		return models.BattingRecord{}, false
	}

	// 状态列优先,名称始终截断
	status := row.Cell(statusColumn)
	name := lead
	if idx, _ := FindDismissal(lead); idx != -1 {
		if status == "" {
			status = strings.TrimSpace(lead[idx:])
		}
		name = strings.TrimSpace(lead[:idx])
	}

	if strings.Contains(name, " not out") {
		name = strings.TrimSpace(strings.Replace(name, " not out", "", 1))
		if status == "" {
			status = "not out"
		}
	}

	name = NormalizeName(stripRoleMarker(name))

	runs := parseCount(row.Cell(runsColumn))
	balls := parseCount(row.Cell(ballsColumn))
	fours := parseCount(row.Cell(foursColumn))
	sixes := parseCount(row.Cell(sixesColumn))

	if corrected, ok := p.Correction.Apply(runs, fours, sixes, row.Cells); ok {
		utils.Debugf("击球手 %s 六次击球列疑似击球率 (%d),修正为 %d", name, sixes, corrected)
		sixes = corrected
	}

	return models.BattingRecord{
		Player: models.Player{Name: name},
		Status: status,
		Runs:   runs,
		Balls:  balls,
		Fours:  fours,
		Sixes:  sixes,
	}, true
}

// ParseBowlingRow 解析投球行
// 列数不足或无法解析名称时返回false
func (p *Parser) ParseBowlingRow(row Row, variant dom.Variant) (models.BowlingRecord, bool) {
	layout, ok := bowlingLayouts[variant]
	if !ok {
		layout = bowlingLayouts[dom.VariantGeneric]
	}

	if len(row.Cells) < layout.minCells {
		return models.BowlingRecord{}, false
	}

	name := NormalizeName(row.Lead)
	if name == "" {
		return models.BowlingRecord{}, false
	}

	// 类名表格列数不足时取最后一列;5列时即三柱门列,零分球等于三柱门数
	dotsColumn := layout.dots
	if variant == dom.VariantClassTable && len(row.Cells) < 7 {
		dotsColumn = len(row.Cells) - 1
	}

	return models.BowlingRecord{
		Player:  models.Player{Name: name},
		Overs:   row.Cell(layout.overs),
		Maidens: parseCount(row.Cell(layout.maidens)),
		Runs:    parseCount(row.Cell(layout.runs)),
		Wickets: parseCount(row.Cell(layout.wickets)),
		Dots:    parseCount(row.Cell(dotsColumn)),
	}, true
}

// ParseBattingRows 解析击球表所有行
func (p *Parser) ParseBattingRows(result dom.Result) []models.BattingRecord {
	records := []models.BattingRecord{}
	skipped := 0
	result.Each(func(_ int, tr *goquery.Selection) {
		if record, ok := p.ParseBattingRow(BattingRow(tr)); ok {
			records = append(records, record)
		} else {
			skipped++
		}
	})
	utils.Debugf("击球记录: %d条, 跳过%d行", len(records), skipped)
	return records
}

// ParseBowlingRows 解析投球表所有行
func (p *Parser) ParseBowlingRows(result dom.Result) []models.BowlingRecord {
	records := []models.BowlingRecord{}
	variant := result.Variant()
	result.Each(func(_ int, tr *goquery.Selection) {
		row, ok := BowlingRow(tr, variant)
		if !ok {
			return
		}
		if record, ok := p.ParseBowlingRow(row, variant); ok {
			records = append(records, record)
		}
	})
	utils.Debugf("投球记录: %d条 (表结构: %s)", len(records), variant)
	return records
}
