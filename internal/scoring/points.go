package scoring

import (
	"sort"
	"strings"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
)

// 得分规则
const (
	FourPoints       = 2
	SixPoints        = 3
	MilestoneRuns    = 25 // 每25分奖励
	MilestonePoints  = 10
	DuckPoints       = -10
	WicketPoints     = 25
	MaidenPoints     = 10
	EconomyPerOver   = 12
	ThreeWicketBonus = 25
	FiveWicketBonus  = 50
	SevenWicketBonus = 100
	ManOfMatchPoints = 25
	UnknownFranchise = "Unknown"
	notOutStatus     = "not out"
)

// OversToBalls 将局数字符串转换为球数
// "4" -> 24, "2.3" -> 15
func OversToBalls(overs string) int {
	overs = strings.TrimSpace(overs)
	if overs == "" {
		return 0
	}

	whole, part, found := strings.Cut(overs, ".")
	balls := parser.ParseInt(whole) * 6
	if found {
		balls += parser.ParseInt(part)
	}
	if balls < 0 {
		return 0
	}
	return balls
}

// BattingPoints 击球得分
func BattingPoints(r models.BattingRecord) int {
	points := r.Runs +
		r.Fours*FourPoints +
		r.Sixes*SixPoints +
		(r.Runs/MilestoneRuns)*MilestonePoints +
		(r.Runs - r.Balls)

	if r.Runs == 0 && r.Status != notOutStatus {
		points += DuckPoints
	}
	return points
}

// BowlingPoints 投球得分,没有投球时为0
func BowlingPoints(r models.BowlingRecord) int {
	balls := OversToBalls(r.Overs)
	if balls == 0 {
		return 0
	}

	// 每局12分 -> 每球2分
	economy := balls*EconomyPerOver/6 - r.Runs

	return r.Wickets*WicketPoints +
		r.Maidens*MaidenPoints +
		economy +
		r.Dots +
		wicketBonus(r.Wickets)
}

func wicketBonus(wickets int) int {
	bonus := 0
	if wickets >= 3 {
		bonus += ThreeWicketBonus
	}
	if wickets >= 5 {
		bonus += FiveWicketBonus
	}
	if wickets >= 7 {
		bonus += SevenWicketBonus
	}
	return bonus
}

// PlayerMatchPoints 球员单场得分
type PlayerMatchPoints struct {
	PlayerName string `json:"player_name"`
	MatchID    int    `json:"match_id"`
	Batting    int    `json:"batting_points"`
	Bowling    int    `json:"bowling_points"`
	Fielding   int    `json:"fielding_points"`
	MOM        int    `json:"mom"`
	Total      int    `json:"total"`
}

// playerKey 球员连接键
func playerKey(name string) string {
	return strings.ToLower(parser.NormalizeName(name))
}

// MatchPoints 计算单场比赛所有球员得分,按首次出现顺序
func MatchPoints(sc *models.CricketScorecard, matchID int) []PlayerMatchPoints {
	var order []string
	players := make(map[string]*PlayerMatchPoints)

	get := func(name string) *PlayerMatchPoints {
		key := playerKey(name)
		if p, ok := players[key]; ok {
			return p
		}
		p := &PlayerMatchPoints{PlayerName: parser.NormalizeName(name), MatchID: matchID}
		players[key] = p
		order = append(order, key)
		return p
	}

	for _, innings := range sc.Innings {
		for _, r := range innings.BattingRecords {
			get(r.Player.Name).Batting += BattingPoints(r)
			for _, c := range ResolveFieldingCredits(r.Status) {
				get(c.PlayerName).Fielding += c.Points
			}
		}
		for _, r := range innings.BowlingRecords {
			get(r.Player.Name).Bowling += BowlingPoints(r)
		}
	}

	if mom := sc.MOM(); mom != "" {
		get(mom).MOM = ManOfMatchPoints
	}

	result := make([]PlayerMatchPoints, 0, len(order))
	for _, key := range order {
		p := players[key]
		p.Total = p.Batting + p.Bowling + p.Fielding + p.MOM
		result = append(result, *p)
	}
	return result
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	PlayerName    string              `json:"player_name"`
	Franchise     string              `json:"franchise"`
	MatchesPlayed int                 `json:"matches_played"`
	TotalPoints   int                 `json:"total_points"`
	Matches       []PlayerMatchPoints `json:"matches,omitempty"`
}

// Leaderboard 汇总多场比赛得分,按总分降序
// franchises 为球员名称到球队的映射,可为nil
func Leaderboard(points []PlayerMatchPoints, franchises map[string]string) []LeaderboardEntry {
	franchiseByKey := make(map[string]string, len(franchises))
	for name, team := range franchises {
		franchiseByKey[playerKey(name)] = team
	}

	var order []string
	entries := make(map[string]*LeaderboardEntry)
	for _, p := range points {
		key := playerKey(p.PlayerName)
		entry, ok := entries[key]
		if !ok {
			franchise, found := franchiseByKey[key]
			if !found {
				franchise = UnknownFranchise
			}
			entry = &LeaderboardEntry{PlayerName: p.PlayerName, Franchise: franchise}
			entries[key] = entry
			order = append(order, key)
		}
		entry.Matches = append(entry.Matches, p)
		entry.TotalPoints += p.Total
	}

	board := make([]LeaderboardEntry, 0, len(order))
	for _, key := range order {
		entry := entries[key]
		entry.MatchesPlayed = countMatches(entry.Matches)
		board = append(board, *entry)
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TotalPoints > board[j].TotalPoints
	})
	return board
}

func countMatches(points []PlayerMatchPoints) int {
	seen := make(map[int]struct{}, len(points))
	for _, p := range points {
		seen[p.MatchID] = struct{}{}
	}
	return len(seen)
}
