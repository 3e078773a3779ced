package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
)

func TestFileTracker_GetLast(t *testing.T) {
	tests := []struct {
		name    string
		content string // 空字符串表示文件不存在
		want    int
	}{
		{name: "文件不存在", want: models.DefaultLastMatchID},
		{name: "文件损坏", content: "{not json", want: models.DefaultLastMatchID},
		{name: "ID无效", content: `{"lastMatchId": 0}`, want: models.DefaultLastMatchID},
		{name: "正常", content: `{"lastMatchId": 1810, "lastProcessedDate": "2025-04-12"}`, want: 1810},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "match_tracker.json")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			mt, err := NewFileTracker(path, 0).GetLast(context.Background())
			if err != nil {
				t.Fatalf("GetLast() error = %v", err)
			}
			if mt.LastMatchID != tt.want {
				t.Errorf("LastMatchID = %d, want %d", mt.LastMatchID, tt.want)
			}
		})
	}
}

func TestFileTracker_CustomDefault(t *testing.T) {
	mt, err := NewFileTracker(filepath.Join(t.TempDir(), "missing.json"), 2000).GetLast(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mt.LastMatchID != 2000 {
		t.Errorf("LastMatchID = %d, want 2000", mt.LastMatchID)
	}
}

func TestFileTracker_SetLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "match_tracker.json")
	tracker := NewFileTracker(path, 0)
	ctx := context.Background()

	if err := tracker.SetLast(ctx, 1801, "2025-03-24"); err != nil {
		t.Fatalf("SetLast() error = %v", err)
	}
	mt, err := tracker.GetLast(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if mt.LastMatchID != 1801 || mt.LastProcessedDate != "2025-03-24" {
		t.Errorf("GetLast() = %+v", mt)
	}
	if mt.NextMatchID() != 1802 {
		t.Errorf("NextMatchID() = %d", mt.NextMatchID())
	}
}

// fakeHashStore 内存中的Redis哈希
type fakeHashStore struct {
	data map[string]map[string]string
	err  error
}

func (f *fakeHashStore) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	if f.err != nil {
		return redis.NewMapStringStringResult(nil, f.err)
	}
	result := make(map[string]string)
	for k, v := range f.data[key] {
		result[k] = v
	}
	return redis.NewMapStringStringResult(result, nil)
}

func (f *fakeHashStore) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	if f.data[key] == nil {
		f.data[key] = make(map[string]string)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[key][values[i].(string)] = toString(values[i+1])
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func toString(v interface{}) string {
	return fmt.Sprint(v)
}

func TestRedisTracker(t *testing.T) {
	store := &fakeHashStore{data: make(map[string]map[string]string)}
	tracker := &RedisTracker{client: store, key: DefaultRedisTrackerKey}
	ctx := context.Background()

	mt, err := tracker.GetLast(ctx)
	if err != nil {
		t.Fatalf("GetLast() error = %v", err)
	}
	if mt.LastMatchID != models.DefaultLastMatchID {
		t.Errorf("键不存在时应返回默认值, got %d", mt.LastMatchID)
	}

	if err := tracker.SetLast(ctx, 1820, "2025-04-20"); err != nil {
		t.Fatalf("SetLast() error = %v", err)
	}
	mt, err = tracker.GetLast(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if mt.LastMatchID != 1820 || mt.LastProcessedDate != "2025-04-20" {
		t.Errorf("GetLast() = %+v", mt)
	}

	store.data[DefaultRedisTrackerKey]["lastMatchId"] = "garbage"
	mt, _ = tracker.GetLast(ctx)
	if mt.LastMatchID != models.DefaultLastMatchID {
		t.Errorf("记录损坏时应返回默认值, got %d", mt.LastMatchID)
	}

	store.err = errors.New("connection refused")
	if _, err := tracker.GetLast(ctx); err == nil {
		t.Error("连接错误应返回错误")
	}
	if err := tracker.SetLast(ctx, 1821, ""); err == nil {
		t.Error("连接错误应返回错误")
	}
}

func TestNewTrackerStore_InvalidBackend(t *testing.T) {
	if _, err := NewTrackerStore(TrackerConfig{Backend: "sqlite"}); err == nil {
		t.Error("无效的存储类型应返回错误")
	}
	store, err := NewTrackerStore(TrackerConfig{Backend: TrackerBackendFile, File: filepath.Join(t.TempDir(), "t.json")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*FileTracker); !ok {
		t.Errorf("NewTrackerStore() = %T, want *FileTracker", store)
	}
}
