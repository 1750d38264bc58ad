package report

import (
	"fmt"

	"github.com/robertkrimen/otto"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

// FilterSink 只把过滤表达式结果为真的标签记录交给下游，文件头和汇总记录总是通过。
//
// 表达式是一段 JavaScript，可以访问 tag 对象：
//
//	tag.index      标签序号
//	tag.offset     标签头偏移
//	tag.type       "audio"、"video"、"script" 或 "unknown"
//	tag.timestamp  扩展后的时间戳
//	tag.data_size  负载长度
//	tag.fields     按字段名索引的全部字段，例如 tag.fields.CodecID
type FilterSink struct {
	next   parser.Sink
	vm     *otto.Otto
	script *otto.Script
}

// NewFilterSink 编译过滤表达式。
func NewFilterSink(next parser.Sink, expr string) (*FilterSink, error) {
	vm := otto.New()
	script, err := vm.Compile("filter", expr)
	if err != nil {
		return nil, fmt.Errorf("无效的过滤表达式: %w", err)
	}
	return &FilterSink{
		next:   next,
		vm:     vm,
		script: script,
	}, nil
}

// WriteRecord 实现 parser.Sink。
func (s *FilterSink) WriteRecord(rec *parser.Record) error {
	if rec.Kind != parser.RecordTag {
		return s.next.WriteRecord(rec)
	}
	ok, err := s.Match(rec)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.next.WriteRecord(rec)
}

// Match 对一条标签记录求值。
func (s *FilterSink) Match(rec *parser.Record) (bool, error) {
	if err := s.vm.Set("tag", filterObject(rec)); err != nil {
		return false, err
	}
	v, err := s.vm.Run(s.script)
	if err != nil {
		return false, fmt.Errorf("标签%d过滤失败: %w", rec.Index, err)
	}
	return v.ToBoolean()
}

func filterObject(rec *parser.Record) map[string]interface{} {
	fields := make(map[string]interface{}, len(rec.Fields))
	for _, f := range rec.Fields {
		if _, ok := fields[f.Name]; !ok {
			fields[f.Name] = scriptValue(f.Value)
		}
	}
	obj := map[string]interface{}{
		"index":     float64(rec.Index),
		"offset":    float64(rec.Offset),
		"type":      "unknown",
		"timestamp": fields["ExtendedTimestamp"],
		"data_size": fields["DataSize"],
		"fields":    fields,
	}
	if t, ok := fields["TagType"].(float64); ok {
		switch t {
		case 8:
			obj["type"] = "audio"
		case 9:
			obj["type"] = "video"
		case 18:
			obj["type"] = "script"
		}
	}
	return obj
}

// scriptValue 数值统一转换为 float64，其它非基本类型转换为展示字符串
func scriptValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, string, float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return FormatValue(x)
	}
}
