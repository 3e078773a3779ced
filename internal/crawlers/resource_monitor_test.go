package crawlers

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

const mb = 1024 * 1024

func fakeGuard(cfg ResourceConfig, availableMB uint64, memErr error, cpuUsage float64) *ResourceGuard {
	g := NewResourceGuard(cfg)
	g.memFn = func(context.Context) (*mem.VirtualMemoryStat, error) {
		if memErr != nil {
			return nil, memErr
		}
		return &mem.VirtualMemoryStat{Total: 8192 * mb, Available: availableMB * mb}, nil
	}
	g.cpuFn = func(context.Context) (float64, error) {
		return cpuUsage, nil
	}
	return g
}

func TestResourceGuard_Check(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ResourceConfig
		availableMB uint64
		memErr      error
		cpu         float64
		wantErr     bool
	}{
		{name: "未启用", cfg: ResourceConfig{Enabled: false}, availableMB: 10, cpu: 100},
		{name: "资源充足", cfg: ResourceConfig{Enabled: true}, availableMB: 4096, cpu: 20},
		{name: "内存不足", cfg: ResourceConfig{Enabled: true, MinAvailableMB: 1024}, availableMB: 512, cpu: 20, wantErr: true},
		{name: "CPU过高", cfg: ResourceConfig{Enabled: true, CPULoadThreshold: 80}, availableMB: 4096, cpu: 99, wantErr: true},
		{name: "CPU检查禁用", cfg: ResourceConfig{Enabled: true, CPULoadThreshold: 200}, availableMB: 4096, cpu: 99},
		{name: "内存采样失败不阻止", cfg: ResourceConfig{Enabled: true}, memErr: errors.New("no /proc"), cpu: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fakeGuard(tt.cfg, tt.availableMB, tt.memErr, tt.cpu).Check(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInsufficientResources) {
				t.Errorf("Check() error = %v, want ErrInsufficientResources", err)
			}
		})
	}
}

func TestMemoryPressure(t *testing.T) {
	tests := []struct {
		availableMB uint64
		want        string
	}{
		{100, "emergency"},
		{250, "critical"},
		{400, "warning"},
		{2048, "normal"},
	}
	for _, tt := range tests {
		if got := memoryPressure(tt.availableMB); got != tt.want {
			t.Errorf("memoryPressure(%d) = %q, want %q", tt.availableMB, got, tt.want)
		}
	}
}
