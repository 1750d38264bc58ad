package report

import (
	"fmt"
	"io"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

// 支持的报告格式
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatTemplate = "template"
)

// Options 报告输出选项。
type Options struct {
	Template  string // FormatTemplate 使用的模板
	ShowUnits bool   // 文本报告中为常见元数据属性附加单位
	Filter    string // 标签过滤表达式，见 FilterSink
}

// New 按格式创建一个写入 w 的 parser.Sink。
func New(format string, w io.Writer, opts Options) (parser.Sink, error) {
	var (
		sink parser.Sink
		err  error
	)
	switch format {
	case "", FormatText:
		sink = NewTextSink(w, opts.ShowUnits)
	case FormatJSON:
		sink = NewJSONSink(w)
	case FormatTemplate:
		sink, err = NewTemplateSink(w, opts.Template)
	default:
		err = fmt.Errorf("未知的报告格式: %s", format)
	}
	if err != nil {
		return nil, err
	}
	if opts.Filter == "" {
		return sink, nil
	}
	return NewFilterSink(sink, opts.Filter)
}

// Formats 返回支持的报告格式。
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatTemplate}
}

var propertyUnits = map[string]string{
	"audiodatarate":   "kbs",
	"videodatarate":   "kbs",
	"audiodelay":      "seconds",
	"duration":        "seconds",
	"audiosamplerate": "Hz",
	"framerate":       "fps",
	"width":           "pixels",
	"height":          "pixels",
	"filesize":        "bytes",
}

// Unit 返回元数据属性的单位，未知属性返回空字符串。
func Unit(name string) string {
	return propertyUnits[name]
}
