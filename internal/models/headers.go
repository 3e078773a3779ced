package models

import (
	"fmt"
	"net/http"
	"strings"
)

// HeaderProvider HTTP头部提供者
// 探测请求和浏览器额外头部都从这里获取
type HeaderProvider interface {
	GetHeaders() (http.Header, error)
}

// HeaderSource 头部来源,按优先级从低到高
type HeaderSource string

const (
	HeaderSourceDefault HeaderSource = "默认"
	HeaderSourceConfig  HeaderSource = "配置文件"
	HeaderSourceCLI     HeaderSource = "命令行"
)

// CliHeaders 命令行 -H 参数,每项格式为 "Name: Value"
type CliHeaders []string

// Parse 解析为 http.Header
// 同名头部以最后一项为准
func (ch CliHeaders) Parse() (http.Header, error) {
	result := make(http.Header, len(ch))
	for i, line := range ch {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok {
			return nil, &ValidationError{Source: HeaderSourceCLI, HeaderName: name, Reason: fmt.Sprintf("第%d项缺少冒号,应为 'Name: Value'", i+1)}
		}
		if name == "" {
			return nil, &ValidationError{Source: HeaderSourceCLI, Reason: fmt.Sprintf("第%d项头部名称为空", i+1)}
		}
		result.Set(name, strings.TrimSpace(value))
	}
	return result, nil
}

// ValidationError 头部验证错误
type ValidationError struct {
	Source     HeaderSource
	HeaderName string
	Reason     string
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("头部验证失败 [%s]: %s", e.HeaderName, e.Reason)
	}
	return fmt.Sprintf("%s头部验证失败 [%s]: %s", e.Source, e.HeaderName, e.Reason)
}
