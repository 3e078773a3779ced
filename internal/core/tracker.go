package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// 跟踪存储类型
const (
	TrackerBackendFile  = "file"
	TrackerBackendRedis = "redis"

	DefaultTrackerFile     = "match_tracker.json"
	DefaultRedisTrackerKey = "iplscorecard:tracker"

	// TrackerDateLayout 处理日期格式
	TrackerDateLayout = "2006-01-02"
)

// TrackerStore 最后处理的比赛记录
// 存储缺失或损坏时返回默认值而不是错误
type TrackerStore interface {
	GetLast(ctx context.Context) (models.MatchTracker, error)
	SetLast(ctx context.Context, matchID int, date string) error
}

// Today 当天日期,用于SetLast
func Today() string {
	return time.Now().Format(TrackerDateLayout)
}

// NewTrackerStore 按配置创建跟踪存储
func NewTrackerStore(cfg TrackerConfig) (TrackerStore, error) {
	switch cfg.Backend {
	case TrackerBackendFile, "":
		return NewFileTracker(cfg.File, cfg.Default), nil
	case TrackerBackendRedis:
		return NewRedisTracker(cfg.Redis, cfg.Default)
	default:
		return nil, fmt.Errorf("无效的跟踪存储: %s", cfg.Backend)
	}
}

func defaultTracker(defaultID int) models.MatchTracker {
	if defaultID <= 0 {
		defaultID = models.DefaultLastMatchID
	}
	return models.MatchTracker{LastMatchID: defaultID}
}

// FileTracker JSON文件跟踪存储
type FileTracker struct {
	path      string
	defaultID int
	mu        sync.Mutex
}

// NewFileTracker 创建文件跟踪存储
func NewFileTracker(path string, defaultID int) *FileTracker {
	if path == "" {
		path = DefaultTrackerFile
	}
	return &FileTracker{path: path, defaultID: defaultID}
}

// GetLast 读取最后处理的比赛
func (ft *FileTracker) GetLast(ctx context.Context) (models.MatchTracker, error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	mt, err := models.LoadTrackerFromFile(ft.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			utils.Warnf("跟踪文件损坏,使用默认值 [%s]: %v", ft.path, err)
		} else {
			utils.Debugf("跟踪文件不存在,使用默认值: %s", ft.path)
		}
		return defaultTracker(ft.defaultID), nil
	}
	if mt.LastMatchID <= 0 {
		utils.Warnf("跟踪文件比赛ID无效 (%d),使用默认值", mt.LastMatchID)
		return defaultTracker(ft.defaultID), nil
	}
	return *mt, nil
}

// SetLast 记录最后处理的比赛
func (ft *FileTracker) SetLast(ctx context.Context, matchID int, date string) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	if dir := filepath.Dir(ft.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建跟踪目录失败: %w", err)
		}
	}

	mt := models.MatchTracker{LastMatchID: matchID, LastProcessedDate: date}
	if err := mt.SaveToFile(ft.path); err != nil {
		return fmt.Errorf("保存跟踪文件失败: %w", err)
	}
	utils.Debugf("跟踪记录已更新: 比赛%d (%s)", matchID, date)
	return nil
}

// hashStore RedisTracker使用的哈希命令
type hashStore interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisTracker Redis哈希跟踪存储
// 多台机器共享抓取进度时使用
type RedisTracker struct {
	client    hashStore
	closer    func() error
	key       string
	defaultID int
}

// NewRedisTracker 连接Redis并创建跟踪存储
func NewRedisTracker(cfg RedisConfig, defaultID int) (*RedisTracker, error) {
	var opt *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("解析Redis URL失败: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("连接Redis失败 [%s]: %w", opt.Addr, err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultRedisTrackerKey
	}
	utils.Infof("使用Redis跟踪存储: %s (key=%s)", opt.Addr, key)
	return &RedisTracker{client: client, closer: client.Close, key: key, defaultID: defaultID}, nil
}

// Close 关闭Redis连接
func (rt *RedisTracker) Close() error {
	if rt.closer == nil {
		return nil
	}
	return rt.closer()
}

// GetLast 读取最后处理的比赛
// 键不存在或字段无效时返回默认值,连接错误返回错误
func (rt *RedisTracker) GetLast(ctx context.Context) (models.MatchTracker, error) {
	values, err := rt.client.HGetAll(ctx, rt.key).Result()
	if err != nil {
		return models.MatchTracker{}, fmt.Errorf("读取Redis跟踪记录失败: %w", err)
	}
	if len(values) == 0 {
		utils.Debugf("Redis跟踪记录不存在,使用默认值: %s", rt.key)
		return defaultTracker(rt.defaultID), nil
	}

	id, err := strconv.Atoi(values["lastMatchId"])
	if err != nil || id <= 0 {
		utils.Warnf("Redis跟踪记录损坏,使用默认值: %v", values)
		return defaultTracker(rt.defaultID), nil
	}
	return models.MatchTracker{LastMatchID: id, LastProcessedDate: values["lastProcessedDate"]}, nil
}

// SetLast 记录最后处理的比赛
func (rt *RedisTracker) SetLast(ctx context.Context, matchID int, date string) error {
	if err := rt.client.HSet(ctx, rt.key, "lastMatchId", matchID, "lastProcessedDate", date).Err(); err != nil {
		return fmt.Errorf("写入Redis跟踪记录失败: %w", err)
	}
	utils.Debugf("Redis跟踪记录已更新: 比赛%d (%s)", matchID, date)
	return nil
}
