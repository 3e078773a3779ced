package parser

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
)

// Row 表格行
// Lead 为首列中的球员名称文本(去除链接包装后), Cells 为所有td的文本
type Row struct {
	Lead  string
	Cells []string
}

// Cell 返回第i列文本,越界返回空字符串
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		texts = append(texts, dom.Text(c))
	})
	return texts
}

// BattingRow 从击球表行构造Row
// 首列有链接时取链接文本
func BattingRow(tr *goquery.Selection) Row {
	cells := tr.Find("td")
	first := cells.First()

	lead := dom.Text(first)
	if link := first.Find("a"); link.Length() > 0 {
		lead = dom.Text(link)
	}

	return Row{Lead: lead, Cells: cellTexts(cells)}
}

// BowlingRow 从投球表行构造Row
// 表头行返回false
func BowlingRow(tr *goquery.Selection, variant dom.Variant) (Row, bool) {
	if variant == dom.VariantPrecise {
		if tr.HasClass("ap-head-row") {
			return Row{}, false
		}
	} else if goquery.NodeName(tr) == "th" || tr.Find("th").Length() > 0 {
		return Row{}, false
	}

	cells := tr.Find("td")
	first := cells.First()

	var lead string
	if variant == dom.VariantPrecise {
		lead = dom.Text(first.Find(".ap-bats-score-name a span"))
	} else if link := first.Find("a"); link.Length() > 0 {
		if span := link.Find("span"); span.Length() > 0 {
			lead = dom.Text(span)
		} else {
			lead = dom.Text(link)
		}
	} else {
		lead = dom.Text(first)
	}

	return Row{Lead: lead, Cells: cellTexts(cells)}, true
}
