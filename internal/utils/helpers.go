package utils

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// ParseMatchID 解析比赛ID
// 支持纯数字ID或完整URL(取最后一段路径)
func ParseMatchID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("比赛ID为空")
	}

	candidate := raw
	if strings.Contains(raw, "/") {
		if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
			candidate = path.Base(strings.TrimRight(parsed.Path, "/"))
		} else {
			parts := strings.Split(strings.TrimRight(raw, "/"), "/")
			candidate = parts[len(parts)-1]
		}
	}

	id, err := strconv.Atoi(candidate)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("无效的比赛ID: %q", raw)
	}
	return id, nil
}

// MatchURL 拼接比赛页面URL
func MatchURL(baseURL string, matchID int) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(baseURL, "/"), matchID)
}
