package instance

import (
	"github.com/bluele/gcache"

	"github.com/yuhaohwang/flv-inspector/src/configs"
	"github.com/yuhaohwang/flv-inspector/src/interfaces"
)

// Instance 一次运行中共享的组件和配置。
type Instance struct {
	Config           *configs.Config           // 应用程序配置
	Logger           *interfaces.Logger        // 日志记录器
	EventDispatcher  interfaces.Module         // 事件分发器
	MetricsCollector interfaces.Module         // 指标收集器，未启用时为 nil
	Server           interfaces.Module         // 检查服务器，未启用时为 nil
	Analyzer         interfaces.StatusProvider // 当前的分析器
	Cache            gcache.Cache              // 最近解析的标签记录，以标签序号为键
}
