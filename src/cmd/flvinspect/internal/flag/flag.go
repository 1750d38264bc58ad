package flag

import (
	"os"

	"github.com/alecthomas/kingpin"

	"github.com/yuhaohwang/flv-inspector/src/configs"
	"github.com/yuhaohwang/flv-inspector/src/consts"
	"github.com/yuhaohwang/flv-inspector/src/report"
)

// 创建一个新的应用程序实例
var (
	app = kingpin.New(consts.AppName, "一个逐标签打印FLV文件结构的命令行工具。").Version(consts.AppVersion)

	// 输入文件
	Input = app.Arg("input", "FLV文件路径，留空或 \"-\" 时读取标准输入。").Default("").String()

	// 配置文件路径
	Conf = app.Flag("config", "配置文件路径，指定后忽略其它标志。").Short('c').String()

	// 调试模式标志
	Debug = app.Flag("debug", "启用调试模式。").Default("false").Bool()

	// 报告格式
	Format = app.Flag("format", "报告格式。").Short('f').Default(report.FormatText).Enum(report.Formats()...)

	// template 格式使用的模板
	Template = app.Flag("template", "template 格式使用的模板，可以使用 sprig 函数。").Default("").String()

	// 报告输出文件
	Output = app.Flag("output", "报告输出文件，默认为标准输出。").Short('o').Default("").String()

	// 不附加单位
	NoUnits = app.Flag("no-units", "文本报告中不为元数据属性附加单位。").Default("false").Bool()

	// 标签过滤表达式
	Filter = app.Flag("filter", "JavaScript 过滤表达式，只输出结果为真的标签，例如 'tag.type == \"video\"'。").Default("").String()

	// 检查服务器地址
	Listen = app.Flag("listen", "分析期间在该地址提供状态查询和实时推送，例如 127.0.0.1:8080。").Default("").String()

	// 指标文件
	MetricsFile = app.Flag("metrics-file", "结束时写出 Prometheus 文本格式指标的文件。").Default("").String()

	// 跳过未知标签
	SkipUnknownTags = app.Flag("skip-unknown-tags", "跳过未知类型的标签而不是终止解析。").Default("false").Bool()

	// 脚本数据策略
	ScriptPolicy = app.Flag("script-policy", "遇到不支持的AMF类型时的策略。").Default("fail").Enum("fail", "stop")

	// CompositionTime 按无符号数解释
	UnsignedCompositionTime = app.Flag("unsigned-composition-time", "AVC CompositionTime 按无符号数解释。").Default("false").Bool()

	// 进度日志间隔
	Progress = app.Flag("progress", "进度日志间隔，0 表示关闭。").Default("0s").Duration()
)

func init() {
	// 解析命令行参数
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

// GenConfigFromFlags 通过解析命令行参数生成配置信息。
func GenConfigFromFlags() *configs.Config {
	cfg := configs.NewConfig()
	cfg.Input = *Input
	cfg.Debug = *Debug
	cfg.Parser.ScriptValuePolicy = *ScriptPolicy
	cfg.Parser.SkipUnknownTags = *SkipUnknownTags
	cfg.Parser.SignExtendCompositionTime = !*UnsignedCompositionTime
	cfg.Report = configs.Report{
		Format:    *Format,
		Template:  *Template,
		Output:    *Output,
		ShowUnits: !*NoUnits,
		Filter:    *Filter,
	}
	if *Listen != "" {
		cfg.RPC = configs.RPC{
			Enable: true,
			Bind:   *Listen,
		}
		// 通过服务器查询指标
		cfg.Metrics.Enable = true
	}
	if *MetricsFile != "" {
		cfg.Metrics.Enable = true
		cfg.Metrics.Textfile = *MetricsFile
	}
	cfg.ProgressInterval = *Progress
	return cfg
}
