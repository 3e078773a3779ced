package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// Player 球员
// 只按显示名称识别,没有稳定ID
type Player struct {
	Name string `json:"name"`
}

// BattingRecord 击球记录
type BattingRecord struct {
	Player Player `json:"player"`
	Status string `json:"status"` // 出局描述,如 "c Smith b Jones" / "not out" / ""
	Runs   int    `json:"runs"`
	Balls  int    `json:"balls"`
	Fours  int    `json:"fours"`
	Sixes  int    `json:"sixes"`
}

// BowlingRecord 投球记录
type BowlingRecord struct {
	Player  Player `json:"player"`
	Overs   string `json:"overs"` // 保留网站原始格式 ("4", "3.2")
	Maidens int    `json:"maidens"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Dots    int    `json:"dots"`
}

// TeamInnings 单局数据
type TeamInnings struct {
	TeamName       string          `json:"teamName"`
	BattingRecords []BattingRecord `json:"battingRecords"`
	BowlingRecords []BowlingRecord `json:"bowlingRecords"`
	Extras         string          `json:"extras"`
	Total          string          `json:"total"`
	FallOfWickets  string          `json:"fallOfWickets"`
}

// NewTeamInnings 创建空的局数据(记录列表非nil,序列化为[])
func NewTeamInnings(teamName string) TeamInnings {
	return TeamInnings{
		TeamName:       teamName,
		BattingRecords: []BattingRecord{},
		BowlingRecords: []BowlingRecord{},
	}
}

// ClearRecords 清空击球和投球记录
func (ti *TeamInnings) ClearRecords() {
	ti.BattingRecords = []BattingRecord{}
	ti.BowlingRecords = []BowlingRecord{}
}

// MarshalJSON 保证记录列表序列化为 [] 而不是 null
func (ti TeamInnings) MarshalJSON() ([]byte, error) {
	type alias TeamInnings
	out := alias(ti)
	if out.BattingRecords == nil {
		out.BattingRecords = []BattingRecord{}
	}
	if out.BowlingRecords == nil {
		out.BowlingRecords = []BowlingRecord{}
	}
	return json.Marshal(out)
}

// MatchInfo 比赛基本信息
type MatchInfo struct {
	Team1      string `json:"team1"`
	Team2      string `json:"team2"`
	MatchDate  string `json:"matchDate"`
	MatchTitle string `json:"matchTitle"`
}

// Teams 返回两支球队名称
func (mi MatchInfo) Teams() [2]string {
	return [2]string{mi.Team1, mi.Team2}
}

// CricketScorecard 单场比赛计分卡
type CricketScorecard struct {
	MatchTitle    string         `json:"matchTitle"`
	MatchDate     string         `json:"matchDate"`
	ManOfTheMatch *string        `json:"manOfTheMatch"`
	Innings       [2]TeamInnings `json:"innings"`
}

// MOM 返回最佳球员名称,没有则返回空字符串
func (sc *CricketScorecard) MOM() string {
	if sc.ManOfTheMatch == nil {
		return ""
	}
	return *sc.ManOfTheMatch
}

// ToJSON 序列化为JSON
func (sc *CricketScorecard) ToJSON() ([]byte, error) {
	return json.MarshalIndent(sc, "", "  ")
}

// FromJSON 从JSON反序列化
func (sc *CricketScorecard) FromJSON(data []byte) error {
	return json.Unmarshal(data, sc)
}

// ScorecardFilename 生成比赛文档文件名
func ScorecardFilename(matchID int) string {
	return fmt.Sprintf("iplt20_match_%d.json", matchID)
}

// LoadScorecardFromFile 从文件加载计分卡
func LoadScorecardFromFile(path string) (*CricketScorecard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc CricketScorecard
	if err := sc.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析计分卡失败 [%s]: %w", path, err)
	}
	return &sc, nil
}
