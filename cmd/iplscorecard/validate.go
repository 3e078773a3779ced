package main

import (
	"fmt"
	"strconv"
)

// ParseMaxCount 解析批量处理数量
func ParseMaxCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("无效的最大处理数: %q", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("最大处理数必须大于0,当前值: %d", n)
	}
	return n, nil
}

// ValidateBatchFlags 验证批量处理参数
func ValidateBatchFlags(startAfter int, maxConsecutiveFailures int) error {
	if startAfter < 0 {
		return fmt.Errorf("起始比赛ID不能为负数,当前值: %d", startAfter)
	}
	if maxConsecutiveFailures < 1 || maxConsecutiveFailures > 20 {
		return fmt.Errorf("连续失败阈值必须在1-20之间,当前值: %d", maxConsecutiveFailures)
	}
	return nil
}
