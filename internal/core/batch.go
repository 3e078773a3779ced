package core

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/RecoveryAshes/iplscorecard/internal/crawlers"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// DefaultMaxConsecutiveFailures 连续失败熔断阈值
const DefaultMaxConsecutiveFailures = 3

// Fetcher 单场比赛抓取
type Fetcher interface {
	FetchScorecard(ctx context.Context, matchID int) (*models.CricketScorecard, error)
}

// BatchProcessor 顺序批量抓取
// 失败的比赛跳过,连续失败达到阈值时停止
type BatchProcessor struct {
	fetcher                Fetcher
	tracker                TrackerStore
	outputDir              string
	maxConsecutiveFailures int
	matchDelay             time.Duration
	notifier               Notifier
	sleep                  crawlers.Sleeper
	showProgress           bool
}

// BatchOption 批量处理选项
type BatchOption func(*BatchProcessor)

// WithMaxConsecutiveFailures 设置熔断阈值
func WithMaxConsecutiveFailures(n int) BatchOption {
	return func(bp *BatchProcessor) {
		if n > 0 {
			bp.maxConsecutiveFailures = n
		}
	}
}

// WithMatchDelay 设置两场比赛之间的等待
func WithMatchDelay(d time.Duration) BatchOption {
	return func(bp *BatchProcessor) { bp.matchDelay = d }
}

// WithNotifier 批量结束后发送通知
func WithNotifier(n Notifier) BatchOption {
	return func(bp *BatchProcessor) { bp.notifier = n }
}

// WithProgressBar 显示进度条
func WithProgressBar(show bool) BatchOption {
	return func(bp *BatchProcessor) { bp.showProgress = show }
}

// WithBatchSleeper 替换等待函数
func WithBatchSleeper(fn crawlers.Sleeper) BatchOption {
	return func(bp *BatchProcessor) { bp.sleep = fn }
}

// NewBatchProcessor 创建批量处理器
func NewBatchProcessor(fetcher Fetcher, tracker TrackerStore, outputDir string, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		fetcher:                fetcher,
		tracker:                tracker,
		outputDir:              outputDir,
		maxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		sleep:                  crawlers.SleepContext,
	}
	for _, opt := range opts {
		opt(bp)
	}
	return bp
}

// Run 从跟踪记录的下一场比赛开始批量处理
func (bp *BatchProcessor) Run(ctx context.Context, maxCount int) (*models.BatchSummary, error) {
	last, err := bp.tracker.GetLast(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取跟踪记录失败: %w", err)
	}
	utils.Infof("上次处理到比赛 %d (%s)", last.LastMatchID, last.LastProcessedDate)
	return bp.ProcessBatch(ctx, last.LastMatchID, maxCount)
}

// ProcessBatch 从 startAfterID+1 开始处理,直到成功maxCount场或连续失败达到阈值
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, startAfterID, maxCount int) (*models.BatchSummary, error) {
	if maxCount <= 0 {
		return nil, fmt.Errorf("最大处理数必须大于0: %d", maxCount)
	}

	matchID := startAfterID + 1
	summary := models.NewBatchSummary(matchID)
	utils.Logger.Info().
		Str("run_id", summary.RunID).
		Int("start", matchID).
		Int("max", maxCount).
		Msg("🚀 开始批量抓取")

	var bar *progressbar.ProgressBar
	if bp.showProgress {
		bar = utils.NewProgressBar(maxCount, "抓取比赛")
		defer bar.Finish()
	}

	consecutiveFailures := 0
	for summary.Processed < maxCount {
		if ctx.Err() != nil {
			summary.StopReason = models.StopCancelled
			break
		}

		result := bp.processOne(ctx, matchID)
		summary.Results = append(summary.Results, result)
		matchID++

		if result.Success {
			summary.Processed++
			consecutiveFailures = 0
			if bar != nil {
				bar.Add(1)
			}
		} else {
			summary.Failed++
			consecutiveFailures++
			utils.Errorf("❌ 比赛 %d 失败 (连续%d次): %s", result.MatchID, consecutiveFailures, result.Error)

			if consecutiveFailures >= bp.maxConsecutiveFailures {
				utils.Warnf("连续失败%d次,停止批量抓取", consecutiveFailures)
				summary.StopReason = models.StopConsecutiveFailures
				break
			}
		}

		if summary.Processed < maxCount && bp.matchDelay > 0 {
			utils.Debugf("等待 %s 后处理下一场比赛", bp.matchDelay)
			bp.sleep(ctx, bp.matchDelay)
		}
	}

	if summary.StopReason == "" {
		summary.StopReason = models.StopMaxReached
	}
	summary.NextMatchID = matchID
	summary.Duration = time.Since(summary.StartedAt).Seconds()

	bp.printSummary(summary)

	if bp.notifier != nil {
		if err := bp.notifier.NotifyBatch(ctx, summary); err != nil {
			utils.Warnf("发送批量通知失败: %v", err)
		}
	}

	return summary, nil
}

// processOne 抓取并保存一场比赛
func (bp *BatchProcessor) processOne(ctx context.Context, matchID int) models.MatchResult {
	result := models.MatchResult{MatchID: matchID}
	startTime := time.Now()

	sc, err := bp.fetcher.FetchScorecard(ctx, matchID)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(startTime).Seconds()
		return result
	}

	path, err := SaveScorecard(bp.outputDir, matchID, sc)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(startTime).Seconds()
		return result
	}

	result.Success = true
	result.MatchTitle = sc.MatchTitle
	result.OutputPath = path
	result.Duration = time.Since(startTime).Seconds()
	return result
}

// printSummary 打印批量处理摘要
func (bp *BatchProcessor) printSummary(summary *models.BatchSummary) {
	utils.Info("==================================================")
	utils.Info("📊 批量抓取摘要")
	utils.Info("==================================================")
	utils.Infof("运行ID: %s", summary.RunID)
	utils.Infof("起始比赛: %d, 下次开始: %d", summary.StartMatchID, summary.NextMatchID)
	utils.Infof("✅ 成功: %d", summary.Processed)
	utils.Infof("❌ 失败: %d", summary.Failed)
	utils.Infof("停止原因: %s", summary.StopReason)
	utils.Infof("⏱️  总耗时: %.2f秒", summary.Duration)
	utils.Info("==================================================")

	if summary.Failed > 0 {
		utils.Warn("失败的比赛:")
		for _, r := range summary.Results {
			if !r.Success {
				utils.Warnf("  - %d: %s", r.MatchID, r.Error)
			}
		}
	}
}
