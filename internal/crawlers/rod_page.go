package crawlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// RodEngine 基于go-rod的浏览器引擎
type RodEngine struct {
	config  models.ScrapeConfig
	headers models.HeaderProvider
}

// NewRodEngine 创建go-rod引擎
func NewRodEngine(cfg models.ScrapeConfig, headers models.HeaderProvider) *RodEngine {
	return &RodEngine{config: cfg, headers: headers}
}

// rodPage go-rod页面
// 每个页面独占一个浏览器进程
type rodPage struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	config   models.ScrapeConfig
	cleanup  func()
}

// Open 启动浏览器并创建页面
func (e *RodEngine) Open(ctx context.Context) (Page, error) {
	l := launcher.New().
		Headless(e.config.Headless).
		Set("ignore-certificate-errors")

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}
	utils.Debugf("浏览器已启动: %s", controlURL)

	p := &rodPage{launcher: l, browser: browser, config: e.config}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}
	p.page = page

	if e.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: e.config.UserAgent}); err != nil {
			utils.Warnf("设置User-Agent失败: %v", err)
		}
	}

	if e.config.ViewportWidth > 0 && e.config.ViewportHeight > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             e.config.ViewportWidth,
			Height:            e.config.ViewportHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			utils.Warnf("设置视口失败: %v", err)
		}
	}

	if headers := extraHeaders(e.headers); len(headers) > 0 {
		dict := make([]string, 0, len(headers)*2)
		for name, value := range headers {
			dict = append(dict, name, value)
		}
		cleanup, err := page.SetExtraHeaders(dict)
		if err != nil {
			utils.Warnf("设置额外请求头失败: %v", err)
		} else {
			p.cleanup = cleanup
			utils.Debugf("浏览器额外请求头: %v", utils.RedactHeaders(toHTTPHeader(headers)))
		}
	}

	return p, nil
}

// Navigate 导航并等待页面加载
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx).Timeout(p.config.NavTimeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w [%s]: %v", ErrNavigation, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w [%s]: 等待页面加载失败: %v", ErrNavigation, url, err)
	}
	return nil
}

// Document 获取DOM快照
func (p *rodPage) Document(ctx context.Context) (*goquery.Document, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return nil, fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Click 通过页面脚本点击元素
func (p *rodPage) Click(ctx context.Context, loc dom.Locator) (bool, error) {
	res, err := p.page.Context(ctx).Eval(clickScript, loc.Selector, loc.Index)
	if err != nil {
		return false, fmt.Errorf("点击元素失败 [%s #%d]: %w", loc.Selector, loc.Index, err)
	}
	return res.Value.Bool(), nil
}

// Screenshot 保存整页截图
func (p *rodPage) Screenshot(ctx context.Context, path string) error {
	data, err := p.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return err
	}
	return writeScreenshot(path, data)
}

// Close 关闭页面和浏览器
func (p *rodPage) Close() error {
	if p.cleanup != nil {
		p.cleanup()
	}
	var err error
	if p.browser != nil {
		err = p.browser.Close()
	}
	if p.launcher != nil {
		p.launcher.Cleanup()
	}
	utils.Debugf("浏览器已关闭")
	return err
}
