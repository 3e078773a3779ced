package main

import (
	"bytes"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

const interruptMessage = "收到中断信号"

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogger(t *testing.T) *lockedBuffer {
	t.Helper()
	buf := &lockedBuffer{}
	original := utils.Logger
	utils.Logger = zerolog.New(buf)
	t.Cleanup(func() { utils.Logger = original })
	return buf
}

func TestSignalContext_NormalStopIsQuiet(t *testing.T) {
	buf := captureLogger(t)

	ctx, stop := signalContext()
	stop()

	if ctx.Err() == nil {
		t.Fatal("stop后ctx应已取消")
	}
	// 等待AfterFunc回调
	time.Sleep(100 * time.Millisecond)

	if strings.Contains(buf.String(), interruptMessage) {
		t.Errorf("正常结束不应记录中断警告, 日志: %s", buf.String())
	}
}

func TestSignalContext_SignalWarns(t *testing.T) {
	buf := captureLogger(t)

	ctx, stop := signalContext()
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("发送信号失败: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("收到SIGTERM后ctx未取消")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), interruptMessage) {
		if time.Now().After(deadline) {
			t.Fatalf("收到信号应记录中断警告, 日志: %s", buf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
