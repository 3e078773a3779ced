package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BrowserEngine 浏览器自动化引擎
type BrowserEngine string

const (
	EngineRod      BrowserEngine = "rod"      // go-rod (默认)
	EngineChromedp BrowserEngine = "chromedp" // chromedp
)

// ScrapeConfig 抓取配置
// 所有等待时间都是固定时长,页面没有提供渲染完成信号
type ScrapeConfig struct {
	BaseURL        string        `json:"base_url" mapstructure:"base_url"`                 // 比赛页面基础URL,后接比赛ID
	Engine         BrowserEngine `json:"engine" mapstructure:"engine"`                     // 浏览器引擎
	Headless       bool          `json:"headless" mapstructure:"headless"`                 // 无头模式 (默认:true)
	UserAgent      string        `json:"user_agent" mapstructure:"user_agent"`             // 浏览器User-Agent
	ViewportWidth  int           `json:"viewport_width" mapstructure:"viewport_width"`     // 视口宽度 (默认:1280)
	ViewportHeight int           `json:"viewport_height" mapstructure:"viewport_height"`   // 视口高度 (默认:800)
	NavTimeout     time.Duration `json:"nav_timeout" mapstructure:"nav_timeout"`           // 页面导航超时 (默认:30s)
	BootstrapDelay time.Duration `json:"bootstrap_delay" mapstructure:"bootstrap_delay"`   // 导航后等待前端框架初始化 (默认:3s)
	RenderDelay    time.Duration `json:"render_delay" mapstructure:"render_delay"`         // 点击计分卡标签后等待渲染 (默认:3s)
	TabSwitchDelay time.Duration `json:"tab_switch_delay" mapstructure:"tab_switch_delay"` // 切换局标签后等待渲染 (默认:5s)
	Screenshots    bool          `json:"screenshots" mapstructure:"screenshots"`           // 保存调试截图
	ScreenshotDir  string        `json:"screenshot_dir" mapstructure:"screenshot_dir"`     // 截图目录
}

// Validate 验证配置
func (c *ScrapeConfig) Validate() error {
	if err := ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base_url无效: %w", err)
	}
	switch c.Engine {
	case EngineRod, EngineChromedp:
	default:
		return fmt.Errorf("无效的浏览器引擎: %s (有效值: rod, chromedp)", c.Engine)
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("导航超时必须大于0")
	}
	if c.BootstrapDelay < 0 || c.RenderDelay < 0 || c.TabSwitchDelay < 0 {
		return fmt.Errorf("等待时间不能为负数")
	}
	if c.BootstrapDelay > time.Minute || c.RenderDelay > time.Minute || c.TabSwitchDelay > time.Minute {
		return fmt.Errorf("等待时间不能超过60秒")
	}
	if c.ViewportWidth < 0 || c.ViewportHeight < 0 {
		return fmt.Errorf("视口尺寸不能为负数")
	}
	return nil
}

// ValidateURL 验证比赛页面基础URL
// 比赛ID会拼接在路径末尾,因此不允许查询参数和片段
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("无效的URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL必须是HTTP或HTTPS协议")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL必须包含主机名")
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("基础URL不能包含查询参数或片段")
	}
	return nil
}
