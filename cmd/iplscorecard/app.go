package main

import (
	"fmt"

	"github.com/RecoveryAshes/iplscorecard/internal/core"
	"github.com/RecoveryAshes/iplscorecard/internal/crawlers"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// application 抓取命令共用的组件
type application struct {
	scraper  *core.Scraper
	tracker  core.TrackerStore
	notifier core.Notifier
	closers  []func() error
}

// newApplication 按配置组装抓取器
func newApplication() (*application, error) {
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}

	headerManager, err := core.NewHeaderManager(appConfig.Headers, headers)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}
	if err := headerManager.Validate(); err != nil {
		return nil, fmt.Errorf("HTTP头部验证失败: %w", err)
	}
	utils.Debugf("HTTP头部: %v", headerManager.GetSafeHeaders())

	engine, err := crawlers.NewEngine(appConfig.Scrape, headerManager)
	if err != nil {
		return nil, err
	}

	app := &application{}

	tracker, err := core.NewTrackerStore(appConfig.Tracker)
	if err != nil {
		return nil, fmt.Errorf("创建跟踪存储失败: %w", err)
	}
	app.tracker = tracker
	if rt, ok := tracker.(*core.RedisTracker); ok {
		app.closers = append(app.closers, rt.Close)
	}

	opts := []core.ScraperOption{
		core.WithParser(parser.New(appConfig.Heuristics.StrikeRate)),
	}
	if appConfig.Probe.Enabled {
		opts = append(opts, core.WithProber(crawlers.NewProber(appConfig.Probe, headerManager)))
	}
	if appConfig.Resource.Enabled {
		opts = append(opts, core.WithResourceGuard(crawlers.NewResourceGuard(appConfig.Resource)))
	}
	app.scraper = core.NewScraper(appConfig.Scrape, engine, tracker, opts...)

	if appConfig.Notify.DiscordWebhookURL != "" {
		notifier, err := core.NewDiscordNotifier(appConfig.Notify)
		if err != nil {
			utils.Warnf("Discord通知不可用: %v", err)
		} else {
			app.notifier = notifier
		}
	}

	return app, nil
}

// Close 释放跟踪存储连接
func (a *application) Close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			utils.Warnf("关闭连接失败: %v", err)
		}
	}
}
