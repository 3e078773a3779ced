package core

import (
	"errors"
	"net/http"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

const (
	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// HeaderManager 管理HTTP请求头部
// 实现 HeaderProvider 接口,探测请求和浏览器额外头部共用
type HeaderManager struct {
	// defaults 系统默认头部
	defaults http.Header

	// config 配置文件 headers 段
	config http.Header

	// cli 命令行 -H 参数
	cli http.Header
}

// NewHeaderManager 创建头部管理器
// 命令行头部格式错误时返回错误
func NewHeaderManager(configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	hm := &HeaderManager{
		defaults: getDefaultHeaders(),
		config:   make(http.Header),
		cli:      make(http.Header),
	}

	for name, value := range configHeaders {
		hm.config.Set(name, value)
	}

	if len(cliHeaders) > 0 {
		parsed, err := models.CliHeaders(cliHeaders).Parse()
		if err != nil {
			return nil, err
		}
		hm.cli = parsed
	}

	if len(hm.config) > 0 {
		utils.Debugf("加载%d个配置头部: %v", len(hm.config), utils.RedactHeaders(hm.config))
	}

	return hm, nil
}

// getDefaultHeaders 返回系统默认头部
// User-Agent由浏览器配置单独设置
func getDefaultHeaders() http.Header {
	return http.Header{
		"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language": []string{"en-US,en;q=0.9"},
	}
}

// Validate 验证所有头部的合法性
// 验证顺序: 默认 → 配置 → 命令行,错误中标注来源
func (hm *HeaderManager) Validate() error {
	layers := []struct {
		source  models.HeaderSource
		headers http.Header
	}{
		{models.HeaderSourceDefault, hm.defaults},
		{models.HeaderSourceConfig, hm.config},
		{models.HeaderSourceCLI, hm.cli},
	}

	for _, layer := range layers {
		if err := utils.ValidateHeaders(layer.headers); err != nil {
			var vErr *models.ValidationError
			if errors.As(err, &vErr) {
				vErr.Source = layer.source
			}
			utils.Errorf("%v", err)
			return err
		}
	}
	return nil
}

// GetMergedHeaders 按优先级合并头部 (default < config < cli)
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	result := make(http.Header)

	for name, values := range hm.defaults {
		result[name] = values
	}
	for name, values := range hm.config {
		result[name] = values
	}
	for name, values := range hm.cli {
		result[name] = values
	}

	return result
}

// GetSafeHeaders 返回脱敏后的头部 (用于日志)
func (hm *HeaderManager) GetSafeHeaders() map[string]string {
	return utils.RedactHeaders(hm.GetMergedHeaders())
}

// GetHeaders 实现 HeaderProvider 接口
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	return hm.GetMergedHeaders(), nil
}
