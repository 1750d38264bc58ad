package report

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

// JSONSink 每条记录输出一行 JSON 对象。
type JSONSink struct {
	w         io.Writer
	logger    *logrus.Logger
	formatter logrus.Formatter
}

// NewJSONSink 创建 JSON 报告。
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{
		w:      w,
		logger: logrus.New(),
		formatter: &logrus.JSONFormatter{
			DisableTimestamp:  true,
			DisableHTMLEscape: true,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "record",
			},
		},
	}
}

// WriteRecord 写出一条记录。
func (s *JSONSink) WriteRecord(rec *parser.Record) error {
	entry := logrus.NewEntry(s.logger).WithFields(logrus.Fields{
		"kind":   rec.Kind,
		"index":  rec.Index,
		"offset": rec.Offset,
		"fields": sanitize(rec.Fields),
	})
	entry.Level = logrus.InfoLevel
	entry.Message = string(rec.Kind)

	b, err := s.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = s.w.Write(b)
	return err
}
