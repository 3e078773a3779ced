package crawlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/RecoveryAshes/iplscorecard/internal/dom"
)

// HTMLPage 已保存的静态页面
// 用于离线解析,点击和截图都不可用
type HTMLPage struct {
	doc *goquery.Document
}

// NewHTMLPage 从HTML内容创建页面
func NewHTMLPage(r io.Reader) (*HTMLPage, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}
	return &HTMLPage{doc: goquery.NewDocumentFromNode(root)}, nil
}

// LoadHTMLPage 从文件加载页面
func LoadHTMLPage(path string) (*HTMLPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开HTML文件失败: %w", err)
	}
	defer f.Close()
	return NewHTMLPage(f)
}

// Navigate 静态页面无需导航
func (p *HTMLPage) Navigate(ctx context.Context, url string) error {
	return ctx.Err()
}

// Document 返回解析后的文档
func (p *HTMLPage) Document(ctx context.Context) (*goquery.Document, error) {
	return p.doc, nil
}

// Click 静态页面不支持点击
func (p *HTMLPage) Click(ctx context.Context, loc dom.Locator) (bool, error) {
	return false, nil
}

// Screenshot 静态页面不支持截图
func (p *HTMLPage) Screenshot(ctx context.Context, path string) error {
	return nil
}

// Close 无需释放资源
func (p *HTMLPage) Close() error {
	return nil
}
