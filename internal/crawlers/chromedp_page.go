package crawlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// ChromedpEngine 基于chromedp的浏览器引擎
type ChromedpEngine struct {
	config  models.ScrapeConfig
	headers models.HeaderProvider
}

// NewChromedpEngine 创建chromedp引擎
func NewChromedpEngine(cfg models.ScrapeConfig, headers models.HeaderProvider) *ChromedpEngine {
	return &ChromedpEngine{config: cfg, headers: headers}
}

type chromedpPage struct {
	taskCtx     context.Context
	taskCancel  context.CancelFunc
	allocCancel context.CancelFunc
	config      models.ScrapeConfig
}

// Open 启动浏览器并创建标签页
func (e *ChromedpEngine) Open(ctx context.Context) (Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if e.config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(e.config.UserAgent))
	}
	if e.config.ViewportWidth > 0 && e.config.ViewportHeight > 0 {
		opts = append(opts, chromedp.WindowSize(e.config.ViewportWidth, e.config.ViewportHeight))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	p := &chromedpPage{
		taskCtx:     taskCtx,
		taskCancel:  taskCancel,
		allocCancel: allocCancel,
		config:      e.config,
	}

	// 第一次Run启动浏览器,必须使用taskCtx本身,派生ctx取消时会关闭整个浏览器
	actions := []chromedp.Action{}
	if e.config.ViewportWidth > 0 && e.config.ViewportHeight > 0 {
		actions = append(actions, chromedp.EmulateViewport(int64(e.config.ViewportWidth), int64(e.config.ViewportHeight)))
	}
	if headers := extraHeaders(e.headers); len(headers) > 0 {
		h := make(network.Headers, len(headers))
		for name, value := range headers {
			h[name] = value
		}
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(h))
	}

	if err := ctx.Err(); err != nil {
		p.Close()
		return nil, err
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		p.Close()
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}
	utils.Debugf("chromedp浏览器已启动")
	return p, nil
}

// run 在标签页上下文中执行动作,调用方ctx取消时中止
func (p *chromedpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(p.taskCtx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate 导航,超时返回ErrNavigation
func (p *chromedpPage) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, p.config.NavTimeout)
	defer cancel()

	if err := p.run(navCtx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("%w [%s]: %v", ErrNavigation, url, err)
	}
	return nil
}

// Document 获取DOM快照
func (p *chromedpPage) Document(ctx context.Context) (*goquery.Document, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Click 通过页面脚本点击元素
func (p *chromedpPage) Click(ctx context.Context, loc dom.Locator) (bool, error) {
	expr, err := clickExpression(loc)
	if err != nil {
		return false, err
	}
	var clicked bool
	if err := p.run(ctx, chromedp.Evaluate(expr, &clicked)); err != nil {
		return false, fmt.Errorf("点击元素失败 [%s #%d]: %w", loc.Selector, loc.Index, err)
	}
	return clicked, nil
}

// Screenshot 保存整页截图
func (p *chromedpPage) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := p.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return err
	}
	return writeScreenshot(path, buf)
}

// Close 关闭标签页和浏览器
func (p *chromedpPage) Close() error {
	p.taskCancel()
	p.allocCancel()
	utils.Debugf("chromedp浏览器已关闭")
	return nil
}
