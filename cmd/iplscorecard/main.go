package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/RecoveryAshes/iplscorecard/internal/core"
	"github.com/RecoveryAshes/iplscorecard/internal/crawlers"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	// 抓取参数
	engine      string
	headless    bool
	screenshots bool
	outputDir   string

	// 批量处理参数
	startAfter   int
	showProgress bool

	// 离线解析参数
	parseMatchID int

	// 积分参数
	pointsOutput string
)

// appConfig 由 PersistentPreRunE 加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "iplscorecard",
	Short: "IPL比赛计分卡抓取工具",
	Long: `iplscorecard - IPL比赛计分卡抓取和积分计算工具

通过无头浏览器渲染iplt20.com比赛页面,提取两局的击球、投球数据,支持:
  • 单场比赛抓取
  • 从上次进度开始的批量抓取(连续失败自动停止)
  • 离线解析已保存的HTML页面
  • 根据已抓取的计分卡计算球员积分榜

示例:
  # 抓取单场比赛
  iplscorecard match 1799

  # 从上次处理的比赛开始,最多抓取10场
  iplscorecard batch 10

  # 自定义HTTP头部
  iplscorecard match 1799 -H "Cookie: session=xxx"

  # 计算积分榜
  iplscorecard points

  # 验证配置文件
  iplscorecard --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env 可选
		_ = godotenv.Load()

		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 命令行参数覆盖配置文件
		config.MergeCLIFlags(engine, headless, cmd.Flags().Changed("headless"), screenshots, outputDir)

		logConfig := config.LogConfig()
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		appConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !validateConfig {
			return cmd.Help()
		}

		utils.Info("🔍 验证配置...")
		if err := appConfig.Validate(); err != nil {
			return fmt.Errorf("配置验证失败: %w", err)
		}

		headerManager, err := core.NewHeaderManager(appConfig.Headers, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}
		if err := headerManager.Validate(); err != nil {
			return fmt.Errorf("HTTP头部验证失败: %w", err)
		}

		safeHeaders := headerManager.GetSafeHeaders()
		utils.Info("✅ 配置验证通过!")
		utils.Infof("浏览器引擎: %s (headless=%v)", appConfig.Scrape.Engine, appConfig.Scrape.Headless)
		utils.Infof("跟踪存储: %s", appConfig.Tracker.Backend)
		utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
		for name, value := range safeHeaders {
			utils.Infof("  %s: %s", name, value)
		}
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <match-id|url>",
	Short: "抓取单场比赛计分卡",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := utils.ParseMatchID(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		sc, err := app.scraper.FetchScorecard(ctx, matchID)
		if err != nil {
			return fmt.Errorf("抓取比赛%d失败: %w", matchID, err)
		}

		path, err := core.SaveScorecard(appConfig.Output.BaseDir, matchID, sc)
		if err != nil {
			return err
		}

		printScorecard(sc)
		utils.Infof("✨ 计分卡已保存: %s", path)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <max-count>",
	Short: "从上次处理的比赛开始批量抓取",
	Long: `从跟踪记录的下一场比赛开始顺序抓取,成功max-count场后停止。

失败的比赛会被跳过,连续失败达到 batch.max_consecutive_failures 次时停止,
通常意味着已经到达尚未进行的比赛。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxCount, err := ParseMaxCount(args[0])
		if err != nil {
			return err
		}
		if err := ValidateBatchFlags(startAfter, appConfig.Batch.MaxConsecutiveFailures); err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		app, err := newApplication()
		if err != nil {
			return err
		}
		defer app.Close()

		opts := []core.BatchOption{
			core.WithMaxConsecutiveFailures(appConfig.Batch.MaxConsecutiveFailures),
			core.WithMatchDelay(appConfig.Batch.MatchDelay),
			core.WithProgressBar(showProgress),
		}
		if app.notifier != nil {
			opts = append(opts, core.WithNotifier(app.notifier))
		}
		processor := core.NewBatchProcessor(app.scraper, app.tracker, appConfig.Output.BaseDir, opts...)

		var summary *models.BatchSummary
		if startAfter > 0 {
			summary, err = processor.ProcessBatch(ctx, startAfter, maxCount)
		} else {
			summary, err = processor.Run(ctx, maxCount)
		}
		if err != nil {
			return fmt.Errorf("批量抓取失败: %w", err)
		}

		reportPath := filepath.Join(appConfig.Output.BaseDir, "batch_summary.json")
		if err := utils.WriteJSONFile(reportPath, summary); err != nil {
			utils.Warnf("保存批量摘要失败: %v", err)
		}

		if summary.StopReason == models.StopCancelled {
			utils.Warn("批量抓取已被中断")
		}
		utils.Info("✨ 批量抓取任务完成!")
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <html-file>",
	Short: "离线解析已保存的比赛页面",
	Long: `解析已保存的比赛页面HTML。

静态页面无法切换局标签,只有保存时激活的一局包含数据。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := crawlers.LoadHTMLPage(args[0])
		if err != nil {
			return err
		}
		defer page.Close()

		scraper := core.NewScraper(appConfig.Scrape, nil, nil,
			core.WithParser(parser.New(appConfig.Heuristics.StrikeRate)),
			core.WithSleeper(func(context.Context, time.Duration) {}),
		)

		sc, _, err := scraper.ExtractFromPage(cmd.Context(), page, nil)
		if err != nil {
			return fmt.Errorf("解析页面失败: %w", err)
		}

		if parseMatchID > 0 {
			path, err := core.SaveScorecard(appConfig.Output.BaseDir, parseMatchID, sc)
			if err != nil {
				return err
			}
			utils.Infof("✨ 计分卡已保存: %s", path)
			return nil
		}

		data, err := sc.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "根据已抓取的计分卡计算积分榜",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		franchises, err := core.LoadFranchises(appConfig.Output.FranchiseFile)
		if err != nil {
			return err
		}

		board, err := core.BuildLeaderboard(appConfig.Output.BaseDir, franchises)
		if err != nil {
			return fmt.Errorf("计算积分失败: %w", err)
		}

		output := pointsOutput
		if output == "" {
			output = filepath.Join(appConfig.Output.BaseDir, appConfig.Output.PointsFile)
		}
		if err := utils.WriteJSONFile(output, board); err != nil {
			return err
		}

		bonus, err := core.BuildFranchiseBonus(appConfig.Output.BaseDir, franchises)
		if err != nil {
			return fmt.Errorf("统计球队奖励失败: %w", err)
		}
		bonusPath := filepath.Join(filepath.Dir(output), appConfig.Output.BonusFile)
		if err := utils.WriteJSONFile(bonusPath, bonus); err != nil {
			return err
		}

		unassignedPath := filepath.Join(appConfig.Output.BaseDir, appConfig.Output.UnassignedLog)
		unassigned, err := core.TrackUnassignedPlayers(unassignedPath, board, time.Now())
		if err != nil {
			// 记录失败不影响积分榜
			utils.Warnf("记录未分配球员失败: %v", err)
		}

		fmt.Println("\n==================================================")
		fmt.Println("🏆 积分榜 (前10名)")
		fmt.Println("==================================================")
		for i, entry := range board {
			if i >= 10 {
				break
			}
			fmt.Printf("%2d. %-24s %-8s %4d分 (%d场)\n", i+1, entry.PlayerName, entry.Franchise, entry.TotalPoints, entry.MatchesPlayed)
		}
		fmt.Println("==================================================")

		if unassigned > 0 {
			fmt.Printf("⚠️  未分配球队: %d名球员 (见 %s)\n", unassigned, unassignedPath)
		}

		utils.Infof("✨ 积分榜已保存: %s", output)
		utils.Infof("✨ 球队奖励统计已保存: %s", bonusPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("iplscorecard %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.Flags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性")

	// 抓取参数
	rootCmd.PersistentFlags().StringVarP(&engine, "engine", "e", "", "浏览器引擎 (rod|chromedp)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.PersistentFlags().BoolVar(&screenshots, "screenshots", false, "保存调试截图")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "输出目录")

	// 批量处理参数
	batchCmd.Flags().IntVar(&startAfter, "start-after", 0, "从此比赛ID之后开始,忽略跟踪记录")
	batchCmd.Flags().BoolVar(&showProgress, "progress", true, "显示进度条")

	parseCmd.Flags().IntVar(&parseMatchID, "match-id", 0, "保存为此比赛ID的计分卡,默认输出到终端")
	pointsCmd.Flags().StringVar(&pointsOutput, "out", "", "积分榜输出文件 (默认: <output>/<points_file>)")

	// 添加子命令
	rootCmd.AddCommand(matchCmd, batchCmd, parseCmd, pointsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// signalContext Ctrl+C时取消,批量处理在当前比赛结束后停止
// 返回的stop也会取消ctx,此时不记录中断警告
func signalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	var stopped atomic.Bool
	context.AfterFunc(ctx, func() {
		if stopped.Load() {
			return
		}
		utils.Warn("收到中断信号,正在优雅关闭...")
	})
	return ctx, func() {
		if ctx.Err() == nil {
			stopped.Store(true)
		}
		stop()
	}
}

// printScorecard 打印单场比赛摘要
func printScorecard(sc *models.CricketScorecard) {
	fmt.Println("\n==================================================")
	fmt.Printf("🏏 %s\n", sc.MatchTitle)
	fmt.Println("==================================================")
	if sc.MatchDate != "" {
		fmt.Printf("📅 日期: %s\n", sc.MatchDate)
	}
	for _, innings := range sc.Innings {
		fmt.Printf("• %-12s 击球%2d 投球%2d  %s\n", innings.TeamName, len(innings.BattingRecords), len(innings.BowlingRecords), innings.Total)
	}
	if mom := sc.MOM(); mom != "" {
		fmt.Printf("⭐ 最佳球员: %s\n", mom)
	}
	fmt.Println("==================================================")
}
