// Package crawlers 提供比赛页面的浏览器访问和两局数据提取
//
// # 概述
//
// 比赛页面由前端框架渲染,没有渲染完成信号。本包把浏览器自动化封装为
// Page 接口,在其上实现计分卡提取和局标签切换状态机。
//
// # 核心组件
//
// ## Page / Engine
//
// Page 提供导航、DOM快照、点击、截图。两种实现:
//
//	engine, err := NewEngine(cfg, headerProvider) // rod(默认) 或 chromedp
//	page, err := engine.Open(ctx)
//	defer page.Close()
//
// HTMLPage 加载已保存的HTML文件,用于离线解析和测试。
//
// ## Navigator
//
// 两局数据提取状态机:
//
//	Unstarted → ActiveTabIdentified → ActiveTabExtracted → OtherTabClicked
//	  → (OtherTabExtracted | SwitchFailed) → Reconciled → Done
//
// 标签切换失败时用空占位局代替。两局击球记录完全相同时清空非初始激活局。
//
// ## Prober / ResourceGuard
//
// 启动浏览器前的可选检查: Prober 用Colly请求页面确认比赛存在,
// ResourceGuard 用gopsutil检查可用内存和CPU负载。
//
// # 错误处理
//
// 只有导航失败(ErrNavigation)、比赛不存在(ErrMatchNotFound)和资源不足
// (ErrInsufficientResources)会中止单场抓取。选择器未命中一律使用默认值并记录警告。
package crawlers
