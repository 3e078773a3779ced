package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"有效的HTTP URL", "http://example.com", false},
		{"有效的HTTPS URL", "https://www.iplt20.com/match/2025", false},
		{"无效的协议", "ftp://example.com", true},
		{"无效的URL", "not a url", true},
		{"空URL", "", true},
		{"带查询参数", "https://www.iplt20.com/match/2025?lang=en", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func validScrapeConfig() ScrapeConfig {
	return ScrapeConfig{
		BaseURL:        "https://www.iplt20.com/match/2025",
		Engine:         EngineRod,
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 800,
		NavTimeout:     30 * time.Second,
		BootstrapDelay: 3 * time.Second,
		RenderDelay:    3 * time.Second,
		TabSwitchDelay: 5 * time.Second,
	}
}

func TestScrapeConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ScrapeConfig)
		wantErr bool
	}{
		{"有效配置", func(c *ScrapeConfig) {}, false},
		{"chromedp引擎", func(c *ScrapeConfig) { c.Engine = EngineChromedp }, false},
		{"未知引擎", func(c *ScrapeConfig) { c.Engine = "playwright" }, true},
		{"无效URL", func(c *ScrapeConfig) { c.BaseURL = "iplt20" }, true},
		{"导航超时为0", func(c *ScrapeConfig) { c.NavTimeout = 0 }, true},
		{"负等待时间", func(c *ScrapeConfig) { c.RenderDelay = -time.Second }, true},
		{"等待时间过长", func(c *ScrapeConfig) { c.TabSwitchDelay = 2 * time.Minute }, true},
		{"零等待时间", func(c *ScrapeConfig) { c.BootstrapDelay = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validScrapeConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTeamInnings_EmptyRecordsSerializeAsArrays(t *testing.T) {
	var ti TeamInnings
	ti.TeamName = "Team 1"

	data, err := json.Marshal(ti)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"battingRecords":[]`) || !strings.Contains(s, `"bowlingRecords":[]`) {
		t.Errorf("空记录应序列化为[], got %s", s)
	}
}

func TestTeamInnings_ClearRecords(t *testing.T) {
	ti := NewTeamInnings("RCB 1st")
	ti.BattingRecords = append(ti.BattingRecords, BattingRecord{Player: Player{Name: "V Kohli"}, Runs: 50})
	ti.BowlingRecords = append(ti.BowlingRecords, BowlingRecord{Player: Player{Name: "J Hazlewood"}, Overs: "4"})
	ti.Total = "180/5"

	ti.ClearRecords()

	if len(ti.BattingRecords) != 0 || len(ti.BowlingRecords) != 0 {
		t.Error("ClearRecords() 后记录应为空")
	}
	if ti.Total != "180/5" || ti.TeamName != "RCB 1st" {
		t.Error("ClearRecords() 不应修改其他字段")
	}
}

func TestCricketScorecard_JSONRoundTrip(t *testing.T) {
	mom := "V Kohli"
	sc := &CricketScorecard{
		MatchTitle:    "RCB vs CSK",
		MatchDate:     "2025-04-01",
		ManOfTheMatch: &mom,
		Innings: [2]TeamInnings{
			NewTeamInnings("RCB 1st"),
			NewTeamInnings("CSK 2nd"),
		},
	}
	sc.Innings[0].BattingRecords = append(sc.Innings[0].BattingRecords, BattingRecord{
		Player: Player{Name: "V Kohli"}, Status: "not out", Runs: 73, Balls: 45, Fours: 6, Sixes: 3,
	})

	data, err := sc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() 失败: %v", err)
	}
	for _, key := range []string{`"matchTitle"`, `"matchDate"`, `"manOfTheMatch"`, `"innings"`, `"teamName"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON缺少字段 %s", key)
		}
	}

	var decoded CricketScorecard
	if err := decoded.FromJSON(data); err != nil {
		t.Fatalf("FromJSON() 失败: %v", err)
	}
	if decoded.MOM() != "V Kohli" {
		t.Errorf("MOM() = %q", decoded.MOM())
	}
	if got := decoded.Innings[0].BattingRecords[0].Sixes; got != 3 {
		t.Errorf("Sixes = %d, want 3", got)
	}
}

func TestCricketScorecard_NullManOfTheMatch(t *testing.T) {
	sc := &CricketScorecard{MatchTitle: "t", MatchDate: "d"}
	data, err := sc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() 失败: %v", err)
	}
	if !strings.Contains(string(data), `"manOfTheMatch": null`) {
		t.Errorf("缺少最佳球员时应为null, got %s", data)
	}
	if sc.MOM() != "" {
		t.Error("MOM() 应为空字符串")
	}
}

func TestScorecardFilename(t *testing.T) {
	if got := ScorecardFilename(1799); got != "iplt20_match_1799.json" {
		t.Errorf("ScorecardFilename() = %s", got)
	}
}

func TestMatchTracker_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match_tracker.json")

	mt := &MatchTracker{LastMatchID: 1805, LastProcessedDate: "2025-04-10"}
	if err := mt.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() 失败: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"lastMatchId": 1805`) {
		t.Errorf("文件内容格式错误: %s", data)
	}

	loaded, err := LoadTrackerFromFile(path)
	if err != nil {
		t.Fatalf("LoadTrackerFromFile() 失败: %v", err)
	}
	if loaded.NextMatchID() != 1806 {
		t.Errorf("NextMatchID() = %d, want 1806", loaded.NextMatchID())
	}
}

func TestCliHeaders_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   CliHeaders
		want    map[string]string
		wantErr bool
	}{
		{"单个头部", CliHeaders{"X-Test: value"}, map[string]string{"X-Test": "value"}, false},
		{"值包含冒号", CliHeaders{"Referer: https://a.com"}, map[string]string{"Referer": "https://a.com"}, false},
		{"缺少冒号", CliHeaders{"invalid"}, nil, true},
		{"空名称", CliHeaders{": value"}, nil, true},
		{"同名以最后为准", CliHeaders{"X-Team: CSK", "x-team: MI"}, map[string]string{"X-Team": "MI"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if vErr, ok := err.(*ValidationError); ok && vErr.Source != HeaderSourceCLI {
				t.Errorf("Source = %q, want 命令行", vErr.Source)
			}
			for k, v := range tt.want {
				if got.Get(k) != v {
					t.Errorf("Parse()[%s] = %q, want %q", k, got.Get(k), v)
				}
			}
		})
	}
}

func TestNewBatchSummary(t *testing.T) {
	bs := NewBatchSummary(1799)
	if bs.RunID == "" {
		t.Error("RunID 不应为空")
	}
	bs.Results = append(bs.Results, MatchResult{MatchID: 1799}, MatchResult{MatchID: 1800})
	ids := bs.AttemptedIDs()
	if len(ids) != 2 || ids[0] != 1799 || ids[1] != 1800 {
		t.Errorf("AttemptedIDs() = %v", ids)
	}
}
