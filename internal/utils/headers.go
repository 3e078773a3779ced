package utils

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
)

// MaxHeaderValueLength HTTP头部值最大长度 (8KB)
const MaxHeaderValueLength = 8192

var (
	headerNameRegex  = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	headerValueRegex = regexp.MustCompile(`^[\x20-\x7E\t]*$`)

	// 由HTTP客户端管理的头部
	forbiddenHeaders = map[string]bool{
		"host":              true,
		"content-length":    true,
		"transfer-encoding": true,
		"connection":        true,
	}

	// 敏感头部名称关键字
	sensitiveKeywords = []string{"authorization", "token", "key", "secret", "password", "cookie"}
)

// ValidateHeaders 验证所有头部,返回第一个错误
func ValidateHeaders(headers http.Header) error {
	for name, values := range headers {
		if forbiddenHeaders[strings.ToLower(name)] {
			return &models.ValidationError{HeaderName: name, Reason: "此头部由HTTP客户端自动管理,不允许自定义"}
		}
		if !headerNameRegex.MatchString(name) {
			return &models.ValidationError{HeaderName: name, Reason: "头部名称包含非法字符"}
		}
		for _, value := range values {
			if len(value) > MaxHeaderValueLength {
				return &models.ValidationError{HeaderName: name, Reason: "头部值过长"}
			}
			if !headerValueRegex.MatchString(value) {
				return &models.ValidationError{HeaderName: name, Reason: "头部值包含非法字符"}
			}
		}
	}
	return nil
}

// RedactHeaders 脱敏头部,用于日志
func RedactHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		result[name] = redactValue(name, values[0])
	}
	return result
}

func redactValue(name, value string) string {
	lower := strings.ToLower(name)
	sensitive := false
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			sensitive = true
			break
		}
	}
	if !sensitive {
		return value
	}
	if strings.HasPrefix(value, "Bearer ") {
		return "Bearer ***"
	}
	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}
	return "***"
}
