package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// ProbeConfig 页面探测配置
type ProbeConfig struct {
	Enabled bool          `mapstructure:"enabled"` // 启动浏览器前先用HTTP请求确认页面存在
	Timeout time.Duration `mapstructure:"timeout"` // 请求超时 (默认:15s)
}

// ProbeResult 探测结果
type ProbeResult struct {
	URL        string
	StatusCode int
	Title      string // 服务端返回的<title>,前端框架渲染前的内容
	BodySize   int
}

// Prober 轻量HTTP探测
// 比赛ID不存在时可以避免启动浏览器
type Prober struct {
	config  ProbeConfig
	headers models.HeaderProvider
}

// NewProber 创建探测器
func NewProber(cfg ProbeConfig, headers models.HeaderProvider) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Prober{config: cfg, headers: headers}
}

// Probe 请求比赛页面
// 404/410 返回 ErrMatchNotFound,其他网络错误返回 ErrNavigation
func (p *Prober) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(p.config.Timeout)

	var headers http.Header
	if p.headers != nil {
		h, err := p.headers.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
		} else {
			headers = h
		}
	}

	c.OnRequest(func(r *colly.Request) {
		for name, values := range headers {
			for _, value := range values {
				r.Headers.Set(name, value)
			}
		}
		r.Headers.Set("Accept-Encoding", "gzip, deflate, br")
	})

	result := &ProbeResult{URL: url}
	var probeErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		body, err := decompressResponse(r.Headers.Get("Content-Encoding"), r.Body)
		if err != nil {
			probeErr = err
			return
		}
		result.BodySize = len(body)

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			utils.Debugf("探测响应解析失败: %v", err)
			return
		}
		result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		probeErr = err
	})

	visitErr := c.Visit(url)

	switch {
	case result.StatusCode == http.StatusNotFound || result.StatusCode == http.StatusGone:
		return result, fmt.Errorf("%w [%s]: HTTP %d", ErrMatchNotFound, url, result.StatusCode)
	case probeErr != nil:
		return result, fmt.Errorf("%w [%s]: %v", ErrNavigation, url, probeErr)
	case visitErr != nil:
		if errors.Is(visitErr, context.Canceled) || errors.Is(visitErr, context.DeadlineExceeded) {
			return result, visitErr
		}
		return result, fmt.Errorf("%w [%s]: %v", ErrNavigation, url, visitErr)
	}

	utils.Debugf("探测成功 [%s]: HTTP %d, %d字节, 标题=%q", url, result.StatusCode, result.BodySize, result.Title)
	return result, nil
}

// decompressResponse 根据Content-Encoding头部解压响应体
// gzip可能已经被HTTP客户端解压,此时按原样返回
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
