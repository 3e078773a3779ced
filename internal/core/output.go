package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/scoring"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

var scorecardFileRegex = regexp.MustCompile(`^iplt20_match_(\d+)\.json$`)

// ScorecardFile 输出目录中的比赛文档
type ScorecardFile struct {
	MatchID int
	Path    string
}

// SaveScorecard 保存比赛文档到 <dir>/iplt20_match_<id>.json
func SaveScorecard(dir string, matchID int, sc *models.CricketScorecard) (string, error) {
	path := filepath.Join(dir, models.ScorecardFilename(matchID))
	if err := utils.WriteJSONFile(path, sc); err != nil {
		return "", fmt.Errorf("保存比赛%d失败: %w", matchID, err)
	}
	return path, nil
}

// ListScorecards 按比赛ID升序列出目录中的比赛文档
func ListScorecards(dir string) ([]ScorecardFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取输出目录失败: %w", err)
	}

	var files []ScorecardFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := scorecardFileRegex.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, ScorecardFile{MatchID: id, Path: filepath.Join(dir, entry.Name())})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].MatchID < files[j].MatchID
	})
	return files, nil
}

// LoadFranchises 加载球员到球队的映射
// 路径为空时返回nil
func LoadFranchises(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取球队映射失败: %w", err)
	}
	var franchises map[string]string
	if err := json.Unmarshal(data, &franchises); err != nil {
		return nil, fmt.Errorf("解析球队映射失败 [%s]: %w", path, err)
	}
	return franchises, nil
}

// loadedScorecard 已加载的比赛文档
type loadedScorecard struct {
	matchID   int
	scorecard *models.CricketScorecard
}

// loadScorecards 加载目录中所有比赛文档,损坏的文档跳过并记录警告
func loadScorecards(dir string) ([]loadedScorecard, error) {
	files, err := ListScorecards(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		utils.Warnf("目录中没有比赛文档: %s", dir)
	}

	loaded := make([]loadedScorecard, 0, len(files))
	for _, f := range files {
		sc, err := models.LoadScorecardFromFile(f.Path)
		if err != nil {
			utils.Warnf("跳过比赛%d: %v", f.MatchID, err)
			continue
		}
		loaded = append(loaded, loadedScorecard{matchID: f.MatchID, scorecard: sc})
	}
	return loaded, nil
}

// BuildLeaderboard 汇总目录中所有比赛文档的积分
func BuildLeaderboard(dir string, franchises map[string]string) ([]scoring.LeaderboardEntry, error) {
	loaded, err := loadScorecards(dir)
	if err != nil {
		return nil, err
	}

	var points []scoring.PlayerMatchPoints
	for _, l := range loaded {
		points = append(points, scoring.MatchPoints(l.scorecard, l.matchID)...)
	}

	board := scoring.Leaderboard(points, franchises)
	utils.Infof("积分汇总: %d场比赛, %d名球员", len(loaded), len(board))
	return board, nil
}

// BuildFranchiseBonus 统计目录中所有比赛文档的球队奖励档位
func BuildFranchiseBonus(dir string, franchises map[string]string) (map[string]*scoring.FranchiseStats, error) {
	loaded, err := loadScorecards(dir)
	if err != nil {
		return nil, err
	}

	scorecards := make([]*models.CricketScorecard, 0, len(loaded))
	for _, l := range loaded {
		scorecards = append(scorecards, l.scorecard)
	}
	return scoring.FranchiseBonus(scorecards, franchises), nil
}

// 未分配球员记录使用印度标准时间
var istZone = time.FixedZone("IST", 5*60*60+30*60)

// TrackUnassignedPlayers 将球队未知的球员追加到记录文件
// 每次追加一段: 分隔线、时间戳、每名球员一行。返回追加的球员数
func TrackUnassignedPlayers(path string, board []scoring.LeaderboardEntry, now time.Time) (int, error) {
	unassigned := scoring.UnassignedPlayers(board)
	if len(unassigned) == 0 {
		utils.Info("没有未分配球队的球员")
		return 0, nil
	}

	var b strings.Builder
	b.WriteString("\n" + strings.Repeat("-", 100) + "\n")
	b.WriteString(now.In(istZone).Format("2006-01-02 15:04:05") + "\n")
	for _, entry := range unassigned {
		fmt.Fprintf(&b, "%s (%d matches, %d points)\n", entry.PlayerName, entry.MatchesPlayed, entry.TotalPoints)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("创建目录失败: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("打开未分配球员记录失败: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return 0, fmt.Errorf("写入未分配球员记录失败: %w", err)
	}
	utils.Warnf("%d名球员未分配球队,已记录到: %s", len(unassigned), path)
	return len(unassigned), nil
}
