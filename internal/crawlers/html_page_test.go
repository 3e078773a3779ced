package crawlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
	"github.com/RecoveryAshes/iplscorecard/internal/parser"
)

func TestHTMLPage_OfflineExtraction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.html")
	if err := os.WriteFile(path, []byte(scorecardHTML(1, "R Sharma", "I Kishan")), 0644); err != nil {
		t.Fatal(err)
	}

	page, err := LoadHTMLPage(path)
	if err != nil {
		t.Fatalf("LoadHTMLPage() error = %v", err)
	}
	defer page.Close()

	ctx := context.Background()
	if ok, err := page.Click(ctx, dom.Locator{Selector: "a", Index: 0}); ok || err != nil {
		t.Errorf("Click() = %v, %v, want false, nil", ok, err)
	}

	nav := NewNavigator(dom.NewRegistry(), parser.Default(), 0)
	innings, err := nav.Extract(ctx, page, [2]string{"CSK", "MI"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(innings[1].BattingRecords) != 2 {
		t.Errorf("第二局击球 = %+v", innings[1].BattingRecords)
	}
	if len(innings[0].BattingRecords) != 0 {
		t.Errorf("静态页面无法切换,第一局应为空: %+v", innings[0].BattingRecords)
	}
}

func TestLoadHTMLPage_MissingFile(t *testing.T) {
	if _, err := LoadHTMLPage(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("文件不存在时应返回错误")
	}
}
