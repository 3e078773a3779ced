package dom

// defaultChains 已知页面结构的策略链
// 精确选择器在前,通用结构回退在后
func defaultChains() map[Target][]Strategy {
	return map[Target][]Strategy{
		ActiveInningsTabs: {
			{Name: "inner-tab-links", Selector: "a.ap-inner-tb-click"},
			{Name: "innings-link-text", Selector: "a", Filter: textContains("Innings"), Generic: true},
		},
		BattingTable: {
			{Name: "mc-batting-table", Selector: ".mc-batting-table tbody tr:not(.mc-batting-total):not(.mc-batting-extras)"},
			{Name: "batting-table", Selector: ".batting-table tbody tr:not(.total-row):not(.extras-row)"},
			{Name: "mc-batting-ng-scope", Selector: ".mc-batting-table tr.ng-scope"},
			{Name: "first-large-table", Selector: "table", Filter: hasMoreRows(3), Rows: "tr", Generic: true},
		},
		BowlingTable: {
			{Name: "sc-bow-card", Selector: ".ap-scorecard-outer.sc-bow-card table", Rows: "tbody:not(.ap-head-row) tr", Variant: VariantPrecise},
			{Name: "mc-bowling-table", Selector: ".mc-bowling-table tbody tr", Variant: VariantClassTable},
			{Name: "bowling-table", Selector: ".bowling-table tbody tr", Variant: VariantClassTable},
			{Name: "mc-bowling-ng-scope", Selector: ".mc-bowling-table tr.ng-scope", Variant: VariantClassTable},
			{Name: "bowler-header-table", Selector: `table:has(th:contains("Bowler")) tbody tr`, Variant: VariantGeneric, Generic: true},
			{Name: "bowler-wrap", Selector: ".scorecard-table.bowler-wrap tr", Variant: VariantGeneric, Generic: true},
		},
		ExtrasRow: {
			{Name: "mc-batting-extras", Selector: ".mc-batting-extras"},
			{Name: "extras-row", Selector: ".extras-row"},
			{Name: "tr-extras", Selector: "tr.extras"},
		},
		TotalRow: {
			{Name: "mc-batting-total", Selector: ".mc-batting-total"},
			{Name: "total-row", Selector: ".total-row"},
			{Name: "tr-total", Selector: "tr.total"},
		},
		FallOfWicketsRow: {
			{Name: "mc-fow-content", Selector: ".mc-fow-content"},
			{Name: "fow-text", Selector: ".fow-text"},
			{Name: "fall-of-wickets", Selector: ".fall-of-wickets"},
		},
		ScorecardTabLink: {
			{Name: "data-id-ng-click", Selector: `a[data-id="scoreCard"][ng-click="scorecardTabsChange('scoreCard')"]`},
			{Name: "data-id", Selector: `a[data-id="scoreCard"]`},
			{Name: "scorecard-link-text", Selector: "a", Filter: textEquals("Scorecard"), Generic: true},
		},
		MatchTitle: {
			{Name: "match-name", Selector: `li[ng-if*="matchSummary.MatchName"] span:last-child`},
		},
		TeamNames: {
			{Name: "team-name", Selector: ".match-squad-team-name, .team-name", MinMatches: 2},
		},
		MatchDate: {
			{Name: "match-date", Selector: `.smry-subhead, .match-date, [ng-if*="matchSummary.MatchDate"]`},
		},
		ManOfTheMatch: {
			{Name: "mom-summary", Selector: `li[ng-if*="matchSummary.MOM"] span:last-child`},
			{Name: "mom-list-item", Selector: "li", Filter: textContains("MOM "), Generic: true},
			{Name: "mom-any-element", Selector: "*", Filter: textHasPrefix("MOM ", 5), Generic: true},
		},
	}
}
