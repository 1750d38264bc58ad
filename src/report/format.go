package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

// FormatValue 将字段值格式化为一行文本。
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(x, 'g', 12, 64)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case []parser.Field:
		parts := make([]string, 0, len(x))
		for _, f := range x {
			parts = append(parts, f.Name+": "+FormatValue(f.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, FormatValue(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

// sanitize 把 JSON 无法表示的 NaN 和无穷大转换为字符串
func sanitize(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
		return x
	case []parser.Field:
		fields := make([]parser.Field, len(x))
		for i, f := range x {
			fields[i] = f
			fields[i].Value = sanitize(f.Value)
		}
		return fields
	case []interface{}:
		values := make([]interface{}, len(x))
		for i, e := range x {
			values[i] = sanitize(e)
		}
		return values
	default:
		return x
	}
}

// Sanitize 返回一份可以直接 JSON 编码的记录副本。
func Sanitize(rec *parser.Record) *parser.Record {
	cp := *rec
	cp.Fields = sanitize(rec.Fields).([]parser.Field)
	return &cp
}
