package report

import (
	"bufio"
	"errors"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

// TemplateSink 用 text/template 渲染每条记录，可使用 sprig 函数。
type TemplateSink struct {
	w    *bufio.Writer
	tmpl *template.Template
}

// NewTemplateSink 解析模板并创建报告。
func NewTemplateSink(w io.Writer, text string) (*TemplateSink, error) {
	if text == "" {
		return nil, errors.New("模板为空")
	}
	tmpl, err := template.New("record").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{
			"field": fieldValue,
			"unit":  Unit,
			"value": FormatValue,
		}).
		Parse(text)
	if err != nil {
		return nil, err
	}
	return &TemplateSink{w: bufio.NewWriter(w), tmpl: tmpl}, nil
}

// WriteRecord 渲染一条记录。
func (s *TemplateSink) WriteRecord(rec *parser.Record) error {
	if err := s.tmpl.Execute(s.w, rec); err != nil {
		return err
	}
	return s.w.Flush()
}

// fieldValue 返回记录中名为 name 的字段值，不存在时返回 nil
func fieldValue(rec *parser.Record, name string) interface{} {
	f, ok := rec.Lookup(name)
	if !ok {
		return nil
	}
	return f.Value
}
