package scoring

import (
	"github.com/RecoveryAshes/iplscorecard/internal/models"
)

// FranchiseStats 球队奖励统计
type FranchiseStats struct {
	Runs25   int `json:"runs_25"`
	Runs50   int `json:"runs_50"`
	Runs75   int `json:"runs_75"`
	Runs100  int `json:"runs_100"`
	Wickets3 int `json:"wickets_3"`
	Wickets5 int `json:"wickets_5"`
	Wickets7 int `json:"wickets_7"`
	Maidens  int `json:"maidens"`
}

// addInnings 单局击球计入最高档
func (s *FranchiseStats) addInnings(runs int) {
	switch {
	case runs >= 100:
		s.Runs100++
	case runs >= 75:
		s.Runs75++
	case runs >= 50:
		s.Runs50++
	case runs >= 25:
		s.Runs25++
	}
}

// addSpell 单场投球计入最高档,加上maiden数
func (s *FranchiseStats) addSpell(wickets, maidens int) {
	switch {
	case wickets >= 7:
		s.Wickets7++
	case wickets >= 5:
		s.Wickets5++
	case wickets >= 3:
		s.Wickets3++
	}
	if maidens > 0 {
		s.Maidens += maidens
	}
}

// FranchiseBonus 按球队统计奖励档位
// 未映射的球员计入 UnknownFranchise
func FranchiseBonus(scorecards []*models.CricketScorecard, franchises map[string]string) map[string]*FranchiseStats {
	franchiseByKey := make(map[string]string, len(franchises))
	for name, team := range franchises {
		franchiseByKey[playerKey(name)] = team
	}

	stats := make(map[string]*FranchiseStats)
	lookup := func(name string) *FranchiseStats {
		team, ok := franchiseByKey[playerKey(name)]
		if !ok {
			team = UnknownFranchise
		}
		s, ok := stats[team]
		if !ok {
			s = &FranchiseStats{}
			stats[team] = s
		}
		return s
	}

	for _, sc := range scorecards {
		if sc == nil {
			continue
		}
		for _, innings := range sc.Innings {
			for _, r := range innings.BattingRecords {
				lookup(r.Player.Name).addInnings(r.Runs)
			}
			for _, r := range innings.BowlingRecords {
				lookup(r.Player.Name).addSpell(r.Wickets, r.Maidens)
			}
		}
	}
	return stats
}

// UnassignedPlayers 返回球队为 UnknownFranchise 的排行榜条目,保持原顺序
func UnassignedPlayers(board []LeaderboardEntry) []LeaderboardEntry {
	var unassigned []LeaderboardEntry
	for _, entry := range board {
		if entry.Franchise == UnknownFranchise {
			unassigned = append(unassigned, entry)
		}
	}
	return unassigned
}
