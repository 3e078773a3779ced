package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "scrape:\n  headless: true\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scrape.BaseURL != "https://www.iplt20.com/match/2025" {
		t.Errorf("BaseURL = %q", cfg.Scrape.BaseURL)
	}
	if cfg.Scrape.Engine != models.EngineRod {
		t.Errorf("Engine = %q", cfg.Scrape.Engine)
	}
	if cfg.Scrape.TabSwitchDelay != 5*time.Second || cfg.Scrape.RenderDelay != 3*time.Second {
		t.Errorf("delays = %v / %v", cfg.Scrape.TabSwitchDelay, cfg.Scrape.RenderDelay)
	}
	if cfg.Batch.MaxConsecutiveFailures != DefaultMaxConsecutiveFailures {
		t.Errorf("MaxConsecutiveFailures = %d", cfg.Batch.MaxConsecutiveFailures)
	}
	if cfg.Tracker.Backend != TrackerBackendFile || cfg.Tracker.Default != models.DefaultLastMatchID {
		t.Errorf("Tracker = %+v", cfg.Tracker)
	}
	if !cfg.Heuristics.StrikeRate.Enabled || cfg.Heuristics.StrikeRate.FallbackColumn != 6 {
		t.Errorf("StrikeRate = %+v", cfg.Heuristics.StrikeRate)
	}
	if cfg.Output.BonusFile != "franchise_wise_bonus.json" || cfg.Output.UnassignedLog != "unassigned_players.txt" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Probe.Enabled || !cfg.Resource.Enabled {
		t.Errorf("Probe/Resource = %+v / %+v", cfg.Probe, cfg.Resource)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("默认配置应通过验证: %v", err)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
scrape:
  engine: chromedp
  tab_switch_delay: 2s
headers:
  Cookie: "session=abc"
batch:
  max_consecutive_failures: 5
tracker:
  backend: redis
  redis:
    addr: redis:6379
`)
	t.Setenv("IPLSCORECARD_OUTPUT_BASE_DIR", "/tmp/scorecards")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scrape.Engine != models.EngineChromedp || cfg.Scrape.TabSwitchDelay != 2*time.Second {
		t.Errorf("Scrape = %+v", cfg.Scrape)
	}
	if cfg.Headers["cookie"] != "session=abc" && cfg.Headers["Cookie"] != "session=abc" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
	if cfg.Batch.MaxConsecutiveFailures != 5 {
		t.Errorf("MaxConsecutiveFailures = %d", cfg.Batch.MaxConsecutiveFailures)
	}
	if cfg.Tracker.Backend != TrackerBackendRedis || cfg.Tracker.Redis.Addr != "redis:6379" {
		t.Errorf("Tracker = %+v", cfg.Tracker)
	}
	if cfg.Output.BaseDir != "/tmp/scorecards" {
		t.Errorf("环境变量应覆盖配置, BaseDir = %q", cfg.Output.BaseDir)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "scrape: [unclosed")); err == nil {
		t.Error("格式错误的配置文件应返回错误")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(writeConfig(t, "logging:\n  level: info\n"))
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "默认配置", mutate: func(*Config) {}},
		{name: "熔断阈值为0", mutate: func(c *Config) { c.Batch.MaxConsecutiveFailures = 0 }, wantErr: true},
		{name: "负数等待", mutate: func(c *Config) { c.Batch.MatchDelay = -time.Second }, wantErr: true},
		{name: "无效存储", mutate: func(c *Config) { c.Tracker.Backend = "sqlite" }, wantErr: true},
		{name: "跟踪文件为空", mutate: func(c *Config) { c.Tracker.File = "" }, wantErr: true},
		{name: "Redis缺少地址", mutate: func(c *Config) {
			c.Tracker.Backend = TrackerBackendRedis
			c.Tracker.Redis.Addr = ""
		}, wantErr: true},
		{name: "Redis URL", mutate: func(c *Config) {
			c.Tracker.Backend = TrackerBackendRedis
			c.Tracker.Redis.Addr = ""
			c.Tracker.Redis.URL = "redis://localhost:6379/0"
		}},
		{name: "无效引擎", mutate: func(c *Config) { c.Scrape.Engine = "selenium" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MergeCLIFlags(t *testing.T) {
	cfg := &Config{Scrape: models.ScrapeConfig{Engine: models.EngineRod, Headless: true}}

	cfg.MergeCLIFlags("", false, false, false, "")
	if !cfg.Scrape.Headless || cfg.Scrape.Engine != models.EngineRod {
		t.Errorf("未设置的参数不应覆盖配置: %+v", cfg.Scrape)
	}

	cfg.MergeCLIFlags("chromedp", false, true, true, "out")
	if cfg.Scrape.Headless || cfg.Scrape.Engine != models.EngineChromedp || !cfg.Scrape.Screenshots || cfg.Output.BaseDir != "out" {
		t.Errorf("MergeCLIFlags() = %+v / %+v", cfg.Scrape, cfg.Output)
	}
}
