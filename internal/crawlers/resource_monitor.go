package crawlers

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// ResourceConfig 资源检查配置
type ResourceConfig struct {
	Enabled          bool `mapstructure:"enabled"`            // 启动浏览器前检查系统资源
	MinAvailableMB   int  `mapstructure:"min_available_mb"`   // 最低可用内存(MB) (默认:500)
	CPULoadThreshold int  `mapstructure:"cpu_load_threshold"` // CPU负载阈值(%),>=200视为禁用 (默认:95)
}

// MemoryStatus 内存状态信息
type MemoryStatus struct {
	TotalMemory     uint64 // 系统总内存(字节)
	AvailableMemory uint64 // 可用内存(字节)
	UsedPercent     float64
	MemoryPressure  string // 内存压力等级
}

// ResourceGuard 浏览器启动前的系统资源检查
// 每个浏览器进程约占用数百MB内存,资源不足时拒绝启动
type ResourceGuard struct {
	config ResourceConfig

	// 可替换的采样函数
	memFn func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	cpuFn func(ctx context.Context) (float64, error)
}

// NewResourceGuard 创建资源检查器
func NewResourceGuard(cfg ResourceConfig) *ResourceGuard {
	if cfg.MinAvailableMB <= 0 {
		cfg.MinAvailableMB = 500
	}
	if cfg.CPULoadThreshold <= 0 {
		cfg.CPULoadThreshold = 95
	}
	return &ResourceGuard{
		config: cfg,
		memFn:  mem.VirtualMemoryWithContext,
		cpuFn:  sampleCPU,
	}
}

// sampleCPU 采样所有CPU核心的平均使用率(100毫秒采样间隔)
func sampleCPU(ctx context.Context) (float64, error) {
	percentages, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(percentages) == 0 {
		return 0, fmt.Errorf("CPU使用率数据为空")
	}
	return percentages[0], nil
}

// Check 检查资源是否允许启动浏览器
// 采样失败只记录警告,不阻止抓取
func (g *ResourceGuard) Check(ctx context.Context) error {
	if !g.config.Enabled {
		return nil
	}

	status, err := g.MemoryStatus(ctx)
	if err != nil {
		utils.Warnf("获取系统内存失败: %v", err)
	} else {
		availableMB := status.AvailableMemory / (1024 * 1024)
		utils.Debugf("可用内存: %dMB (压力等级: %s)", availableMB, status.MemoryPressure)
		if availableMB < uint64(g.config.MinAvailableMB) {
			return fmt.Errorf("%w: 可用内存%dMB,低于%dMB", ErrInsufficientResources, availableMB, g.config.MinAvailableMB)
		}
	}

	// 阈值 >= 200 跳过CPU检查
	if g.config.CPULoadThreshold >= 200 {
		return nil
	}

	usage, err := g.cpuFn(ctx)
	if err != nil {
		utils.Warnf("获取CPU使用率失败: %v", err)
		return nil
	}
	if usage > float64(g.config.CPULoadThreshold) {
		return fmt.Errorf("%w: CPU负载过高(当前%.1f%%)", ErrInsufficientResources, usage)
	}
	return nil
}

// MemoryStatus 获取当前内存状态
func (g *ResourceGuard) MemoryStatus(ctx context.Context) (MemoryStatus, error) {
	vm, err := g.memFn(ctx)
	if err != nil {
		return MemoryStatus{}, err
	}
	return MemoryStatus{
		TotalMemory:     vm.Total,
		AvailableMemory: vm.Available,
		UsedPercent:     vm.UsedPercent,
		MemoryPressure:  memoryPressure(vm.Available / (1024 * 1024)),
	}, nil
}

// memoryPressure 内存压力等级
func memoryPressure(availableMB uint64) string {
	switch {
	case availableMB < 200:
		return "emergency"
	case availableMB < 300:
		return "critical"
	case availableMB < 500:
		return "warning"
	default:
		return "normal"
	}
}
