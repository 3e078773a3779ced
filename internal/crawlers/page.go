package crawlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// 错误类型定义
var (
	ErrNavigation            = errors.New("页面导航失败")
	ErrBrowserCrashed        = errors.New("浏览器崩溃")
	ErrMatchNotFound         = errors.New("比赛页面不存在")
	ErrInsufficientResources = errors.New("系统资源不足")
)

// Page 渲染后的比赛页面
// 文档快照反映调用时刻的DOM状态
type Page interface {
	// Navigate 导航到URL,超时或网络错误返回ErrNavigation
	Navigate(ctx context.Context, url string) error
	// Document 返回当前DOM快照
	Document(ctx context.Context) (*goquery.Document, error)
	// Click 点击定位器指向的元素,元素不存在时返回false
	Click(ctx context.Context, loc dom.Locator) (bool, error)
	// Screenshot 保存截图
	Screenshot(ctx context.Context, path string) error
	// Close 释放页面及浏览器
	Close() error
}

// Engine 创建页面
type Engine interface {
	Open(ctx context.Context) (Page, error)
}

// NewEngine 按配置创建浏览器引擎
func NewEngine(cfg models.ScrapeConfig, headers models.HeaderProvider) (Engine, error) {
	switch cfg.Engine {
	case models.EngineRod, "":
		return NewRodEngine(cfg, headers), nil
	case models.EngineChromedp:
		return NewChromedpEngine(cfg, headers), nil
	default:
		return nil, fmt.Errorf("不支持的浏览器引擎: %s", cfg.Engine)
	}
}

// clickScript 在实时页面中点击 querySelectorAll(sel)[idx]
const clickScript = `(sel, idx) => {
	const el = document.querySelectorAll(sel)[idx];
	if (!el) {
		return false;
	}
	el.click();
	return true;
}`

// clickExpression 生成可直接执行的点击表达式
func clickExpression(loc dom.Locator) (string, error) {
	sel, err := json.Marshal(loc.Selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s)(%s, %d)", clickScript, sel, loc.Index), nil
}

// extraHeaders 获取浏览器额外请求头
func extraHeaders(provider models.HeaderProvider) map[string]string {
	if provider == nil {
		return nil
	}
	headers, err := provider.GetHeaders()
	if err != nil {
		utils.Warnf("获取HTTP头部失败: %v", err)
		return nil
	}
	result := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) > 0 {
			result[name] = values[0]
		}
	}
	return result
}

// toHTTPHeader 转换为http.Header,用于日志脱敏
func toHTTPHeader(headers map[string]string) http.Header {
	result := make(http.Header, len(headers))
	for name, value := range headers {
		result.Set(name, value)
	}
	return result
}

// writeScreenshot 写入截图文件
func writeScreenshot(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建截图目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Screenshotter 调试截图
// 未启用时所有调用都是空操作
type Screenshotter struct {
	Enabled bool
	Dir     string // 截图目录,如 screenshots/1799
}

// NewScreenshotter 创建比赛截图器
func NewScreenshotter(cfg models.ScrapeConfig, matchID int) *Screenshotter {
	return &Screenshotter{
		Enabled: cfg.Screenshots,
		Dir:     filepath.Join(cfg.ScreenshotDir, fmt.Sprintf("%d", matchID)),
	}
}

// Capture 截图,失败只记录警告
func (s *Screenshotter) Capture(ctx context.Context, page Page, name string) {
	if s == nil || !s.Enabled {
		return
	}
	path := filepath.Join(s.Dir, name)
	if err := page.Screenshot(ctx, path); err != nil {
		utils.Warnf("截图失败 [%s]: %v", path, err)
		return
	}
	utils.Debugf("截图已保存: %s", path)
}
