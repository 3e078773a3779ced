package parser

import (
	"regexp"
	"strings"
)

var (
	// 击球名单中的单个角色标记,如 "(c)" "(wk)"
	roleMarkerRegex = regexp.MustCompile(`(?i)\s*\([a-z]+\)\s*$`)

	// 队长/守门员标记及组合形式 "(c & wk)"
	decorationRegex = regexp.MustCompile(`(?i)\s*(\((c|wk|c\s*&\s*wk|wk\s*&\s*c)\)|†|\*)\s*$`)
)

// stripRoleMarker 去除末尾单个角色标记
func stripRoleMarker(name string) string {
	return strings.TrimSpace(roleMarkerRegex.ReplaceAllString(name, ""))
}

// NormalizeName 去除球员名称中的队长/守门员标记
// "MS Dhoni (c)†" -> "MS Dhoni"
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	for {
		stripped := strings.TrimSpace(decorationRegex.ReplaceAllString(name, ""))
		if stripped == name {
			return name
		}
		name = stripped
	}
}
