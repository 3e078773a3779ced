package parser

import "math"

// 击球表的列位置在不同比赛类型之间不固定,六次击球列有时读到的是击球率
const (
	DefaultMisreadAbove   = 30 // 六次击球数超过此值视为可疑
	DefaultTolerance      = 10 // 与最后一列(击球率)的差值小于此值视为误读
	DefaultPlausibleBelow = 20 // 备用列数值小于此值视为合理
	DefaultFallbackColumn = 6  // 备用列位置
)

// StrikeRateCorrection 修正被误读为六次击球数的击球率
type StrikeRateCorrection struct {
	Enabled        bool    `mapstructure:"enabled"`
	MisreadAbove   int     `mapstructure:"misread_above"`
	Tolerance      float64 `mapstructure:"tolerance"`
	PlausibleBelow int     `mapstructure:"plausible_below"`
	FallbackColumn int     `mapstructure:"fallback_column"`
}

// DefaultStrikeRateCorrection 默认修正参数
func DefaultStrikeRateCorrection() StrikeRateCorrection {
	return StrikeRateCorrection{
		Enabled:        true,
		MisreadAbove:   DefaultMisreadAbove,
		Tolerance:      DefaultTolerance,
		PlausibleBelow: DefaultPlausibleBelow,
		FallbackColumn: DefaultFallbackColumn,
	}
}

// Apply 返回修正后的六次击球数,以及是否发生了修正
// cells为整行单元格文本,sixes位于第6列(下标5)
func (c StrikeRateCorrection) Apply(runs, fours, sixes int, cells []string) (int, bool) {
	if !c.Enabled || sixes <= c.MisreadAbove || len(cells) <= sixesColumn+1 {
		return sixes, false
	}

	last := ParseFloat(cells[len(cells)-1])
	if math.Abs(float64(sixes)-last) >= c.Tolerance {
		return sixes, false
	}

	if c.FallbackColumn >= 0 && c.FallbackColumn < len(cells) {
		if candidate := parseCount(cells[c.FallbackColumn]); candidate < c.PlausibleBelow {
			return candidate, true
		}
	}

	return estimateSixes(runs, fours), true
}

// estimateSixes 根据得分和四次击球数估算六次击球数
func estimateSixes(runs, fours int) int {
	estimate := int(math.Floor(float64(runs-fours*4) / 6))
	upper := runs / 6
	if estimate > upper {
		estimate = upper
	}
	if estimate < 0 {
		estimate = 0
	}
	return estimate
}
