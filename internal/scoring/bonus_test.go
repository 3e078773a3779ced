package scoring

import (
	"reflect"
	"testing"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
)

func bonusScorecard(batting []models.BattingRecord, bowling []models.BowlingRecord) *models.CricketScorecard {
	first := models.NewTeamInnings("CSK 1st")
	first.BattingRecords = batting
	first.BowlingRecords = bowling
	return &models.CricketScorecard{
		Innings: [2]models.TeamInnings{first, models.NewTeamInnings("MI 2nd")},
	}
}

func bat(name string, runs int) models.BattingRecord {
	return models.BattingRecord{Player: models.Player{Name: name}, Runs: runs}
}

func bowl(name string, wickets, maidens int) models.BowlingRecord {
	return models.BowlingRecord{Player: models.Player{Name: name}, Overs: "4", Wickets: wickets, Maidens: maidens}
}

func TestFranchiseBonus(t *testing.T) {
	franchises := map[string]string{
		"R Gaikwad": "CSK",
		"MS Dhoni":  "CSK",
		"J Bumrah":  "MI",
	}

	tests := []struct {
		name       string
		scorecards []*models.CricketScorecard
		want       map[string]*FranchiseStats
	}{
		{
			name: "击球档位边界",
			scorecards: []*models.CricketScorecard{bonusScorecard(
				[]models.BattingRecord{bat("R Gaikwad", 24), bat("R Gaikwad", 25), bat("MS Dhoni (c)", 50), bat("R Gaikwad", 99), bat("MS Dhoni", 100)},
				nil,
			)},
			want: map[string]*FranchiseStats{
				"CSK": {Runs25: 1, Runs50: 1, Runs75: 1, Runs100: 1},
			},
		},
		{
			name: "投球档位与maiden",
			scorecards: []*models.CricketScorecard{bonusScorecard(
				nil,
				[]models.BowlingRecord{bowl("J Bumrah", 2, 1), bowl("J Bumrah", 3, 0), bowl("J Bumrah", 5, 2), bowl("J Bumrah", 7, 0)},
			)},
			want: map[string]*FranchiseStats{
				"MI": {Wickets3: 1, Wickets5: 1, Wickets7: 1, Maidens: 3},
			},
		},
		{
			name: "未映射球员",
			scorecards: []*models.CricketScorecard{
				bonusScorecard([]models.BattingRecord{bat("Unlisted Player", 60)}, []models.BowlingRecord{bowl("Unlisted Bowler", 0, 0)}),
				nil,
			},
			want: map[string]*FranchiseStats{
				UnknownFranchise: {Runs50: 1},
			},
		},
		{
			name:       "无比赛",
			scorecards: nil,
			want:       map[string]*FranchiseStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FranchiseBonus(tt.scorecards, franchises)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FranchiseBonus() = %+v, want %+v", formatStats(got), formatStats(tt.want))
			}
		})
	}
}

func formatStats(stats map[string]*FranchiseStats) map[string]FranchiseStats {
	out := make(map[string]FranchiseStats, len(stats))
	for team, s := range stats {
		out[team] = *s
	}
	return out
}

func TestUnassignedPlayers(t *testing.T) {
	board := []LeaderboardEntry{
		{PlayerName: "A", Franchise: "CSK", TotalPoints: 90},
		{PlayerName: "B", Franchise: UnknownFranchise, TotalPoints: 50},
		{PlayerName: "C", Franchise: UnknownFranchise, TotalPoints: 10},
	}

	got := UnassignedPlayers(board)
	if len(got) != 2 || got[0].PlayerName != "B" || got[1].PlayerName != "C" {
		t.Errorf("UnassignedPlayers() = %+v, want [B C]", got)
	}
	if UnassignedPlayers(board[:1]) != nil {
		t.Error("全部已分配时应返回nil")
	}
}
