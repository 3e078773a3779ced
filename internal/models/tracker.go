package models

import (
	"encoding/json"
	"os"
)

// DefaultLastMatchID 跟踪文件缺失或损坏时使用的默认值
// 赛季第一场比赛ID为1799
const DefaultLastMatchID = 1798

// MatchTracker 最后处理的比赛
type MatchTracker struct {
	LastMatchID       int    `json:"lastMatchId"`
	LastProcessedDate string `json:"lastProcessedDate"`
}

// NextMatchID 返回下一场待处理比赛ID
func (mt MatchTracker) NextMatchID() int {
	return mt.LastMatchID + 1
}

// ToJSON 序列化为JSON
func (mt *MatchTracker) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mt, "", "  ")
}

// FromJSON 从JSON反序列化
func (mt *MatchTracker) FromJSON(data []byte) error {
	return json.Unmarshal(data, mt)
}

// SaveToFile 保存到文件
func (mt *MatchTracker) SaveToFile(path string) error {
	data, err := mt.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTrackerFromFile 从文件加载
func LoadTrackerFromFile(path string) (*MatchTracker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mt MatchTracker
	if err := mt.FromJSON(data); err != nil {
		return nil, err
	}
	return &mt, nil
}
