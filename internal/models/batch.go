package models

import (
	"time"

	"github.com/google/uuid"
)

// StopReason 批量处理停止原因
type StopReason string

const (
	StopMaxReached          StopReason = "max_reached"          // 达到最大处理数
	StopConsecutiveFailures StopReason = "consecutive_failures" // 连续失败熔断
	StopCancelled           StopReason = "cancelled"            // 被中断
)

// MatchResult 单场比赛处理结果
type MatchResult struct {
	MatchID    int     `json:"match_id"`
	Success    bool    `json:"success"`
	MatchTitle string  `json:"match_title,omitempty"`
	OutputPath string  `json:"output_path,omitempty"`
	Error      string  `json:"error,omitempty"`
	Duration   float64 `json:"duration"` // 耗时(秒)
}

// BatchSummary 批量处理摘要
type BatchSummary struct {
	RunID        string        `json:"run_id"`
	StartMatchID int           `json:"start_match_id"`
	NextMatchID  int           `json:"next_match_id"` // 下次应尝试的比赛ID
	Processed    int           `json:"processed"`
	Failed       int           `json:"failed"`
	StopReason   StopReason    `json:"stop_reason"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     float64       `json:"duration"`
	Results      []MatchResult `json:"results"`
}

// NewBatchSummary 创建批量处理摘要
func NewBatchSummary(startMatchID int) *BatchSummary {
	return &BatchSummary{
		RunID:        uuid.NewString(),
		StartMatchID: startMatchID,
		NextMatchID:  startMatchID,
		StartedAt:    time.Now(),
		Results:      make([]MatchResult, 0),
	}
}

// AttemptedIDs 返回已尝试的比赛ID
func (bs *BatchSummary) AttemptedIDs() []int {
	ids := make([]int, 0, len(bs.Results))
	for _, r := range bs.Results {
		ids = append(ids, r.MatchID)
	}
	return ids
}
