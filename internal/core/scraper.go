package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/iplscorecard/internal/crawlers"
	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// ErrInvalidMatchID 比赛ID无效
var ErrInvalidMatchID = errors.New("无效的比赛ID")

// Scraper 单场比赛计分卡抓取
// 每次抓取独占一个浏览器页面,结束时无论成功失败都会关闭
type Scraper struct {
	config   models.ScrapeConfig
	engine   crawlers.Engine
	registry *dom.Registry
	parser   *parser.Parser
	tracker  TrackerStore
	prober   *crawlers.Prober
	guard    *crawlers.ResourceGuard
	sleep    crawlers.Sleeper
}

// ScraperOption 抓取器选项
type ScraperOption func(*Scraper)

// WithParser 使用自定义解析器
func WithParser(p *parser.Parser) ScraperOption {
	return func(s *Scraper) { s.parser = p }
}

// WithRegistry 使用自定义选择器注册表
func WithRegistry(reg *dom.Registry) ScraperOption {
	return func(s *Scraper) { s.registry = reg }
}

// WithProber 启动浏览器前先探测页面
func WithProber(p *crawlers.Prober) ScraperOption {
	return func(s *Scraper) { s.prober = p }
}

// WithResourceGuard 启动浏览器前检查系统资源
func WithResourceGuard(g *crawlers.ResourceGuard) ScraperOption {
	return func(s *Scraper) { s.guard = g }
}

// WithSleeper 替换等待函数
func WithSleeper(fn crawlers.Sleeper) ScraperOption {
	return func(s *Scraper) { s.sleep = fn }
}

// NewScraper 创建抓取器
// tracker 可为nil,此时不记录进度
func NewScraper(cfg models.ScrapeConfig, engine crawlers.Engine, tracker TrackerStore, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		config:   cfg,
		engine:   engine,
		registry: dom.NewRegistry(),
		parser:   parser.Default(),
		tracker:  tracker,
		sleep:    crawlers.SleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchScorecard 抓取一场比赛
// 导航失败、比赛不存在、资源不足时返回错误,其他步骤失败只记录警告
func (s *Scraper) FetchScorecard(ctx context.Context, matchID int) (sc *models.CricketScorecard, err error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMatchID, matchID)
	}

	// 浏览器驱动的panic转换为错误,不中断批量处理
	defer func() {
		if r := recover(); r != nil {
			sc = nil
			err = fmt.Errorf("抓取比赛%d时发生panic: %v", matchID, r)
			utils.Errorf("%v", err)
		}
	}()

	url := utils.MatchURL(s.config.BaseURL, matchID)
	mlog := utils.MatchLogger(matchID)
	mlog.Info().Str("url", url).Msg("🏏 开始抓取比赛")
	startTime := time.Now()

	if s.prober != nil {
		result, err := s.prober.Probe(ctx, url)
		if err != nil {
			return nil, err
		}
		utils.Debugf("页面探测: HTTP %d %q", result.StatusCode, result.Title)
	}

	if s.guard != nil {
		if err := s.guard.Check(ctx); err != nil {
			return nil, err
		}
	}

	page, err := s.engine.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("打开浏览器页面失败: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			utils.Warnf("关闭浏览器失败: %v", cerr)
		}
	}()

	if err := page.Navigate(ctx, url); err != nil {
		return nil, err
	}
	utils.Debugf("页面已加载,等待前端框架初始化")

	shots := crawlers.NewScreenshotter(s.config, matchID)
	shots.Capture(ctx, page, "match_page.png")

	s.sleep(ctx, s.config.BootstrapDelay)

	s.clickScorecardTab(ctx, page)
	shots.Capture(ctx, page, "after_scorecard_click.png")

	s.sleep(ctx, s.config.RenderDelay)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sc, info, err := s.ExtractFromPage(ctx, page, shots)
	if err != nil {
		return nil, err
	}

	if s.tracker != nil {
		date := info.MatchDate
		if date == "" {
			date = Today()
		}
		if err := s.tracker.SetLast(ctx, matchID, date); err != nil {
			utils.Errorf("更新跟踪记录失败: %v", err)
		}
	}

	mlog.Info().
		Str("title", sc.MatchTitle).
		Int("batting_1st", len(sc.Innings[0].BattingRecords)).
		Int("batting_2nd", len(sc.Innings[1].BattingRecords)).
		Float64("duration", time.Since(startTime).Seconds()).
		Msg("✅ 比赛抓取完成")
	return sc, nil
}

// clickScorecardTab 点击计分卡标签
// 找不到标签时计分卡可能已是默认视图,只记录警告
func (s *Scraper) clickScorecardTab(ctx context.Context, page crawlers.Page) {
	doc, err := page.Document(ctx)
	if err != nil {
		utils.Warnf("读取页面DOM失败,跳过计分卡标签: %v", err)
		return
	}

	result := s.registry.Find(doc, dom.ScorecardTabLink)
	loc, ok := result.Locate(0)
	if !ok {
		utils.Warnf("未找到计分卡标签,继续使用当前视图")
		return
	}

	clicked, err := page.Click(ctx, loc)
	switch {
	case err != nil:
		utils.Warnf("点击计分卡标签失败: %v", err)
	case !clicked:
		utils.Warnf("计分卡标签不可点击 [%s #%d]", loc.Selector, loc.Index)
	default:
		utils.Debugf("已点击计分卡标签 (策略: %s)", result.Strategy.Name)
	}
}

// ExtractFromPage 从已渲染的页面提取计分卡
// 顺序: 比赛信息 → 两局数据 → 最佳球员
func (s *Scraper) ExtractFromPage(ctx context.Context, page crawlers.Page, shots *crawlers.Screenshotter) (*models.CricketScorecard, models.MatchInfo, error) {
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, models.MatchInfo{}, fmt.Errorf("读取页面DOM失败: %w", err)
	}

	info := crawlers.ExtractMatchInfo(doc, s.registry)
	utils.Infof("比赛: %s (%s)", info.MatchTitle, info.MatchDate)

	nav := crawlers.NewNavigator(s.registry, s.parser, s.config.TabSwitchDelay).
		WithSleeper(s.sleep).
		WithScreenshotter(shots)
	innings, err := nav.Extract(ctx, page, info.Teams())
	if err != nil {
		return nil, info, err
	}

	// 切换标签后DOM已变化,重新读取
	doc, err = page.Document(ctx)
	if err != nil {
		return nil, info, fmt.Errorf("读取页面DOM失败: %w", err)
	}
	mom := crawlers.ExtractManOfTheMatch(doc, s.registry)

	title := info.MatchTitle
	if title == "" {
		title = info.Team1 + " vs " + info.Team2
	}

	return &models.CricketScorecard{
		MatchTitle:    title,
		MatchDate:     info.MatchDate,
		ManOfTheMatch: mom,
		Innings:       innings,
	}, info, nil
}
