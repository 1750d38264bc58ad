//go:generate mockgen -package mock -destination mock/mock.go github.com/yuhaohwang/flv-inspector/src/pkg/parser Parser,Sink
package parser

import (
	"context"
	"errors"
	"io"
	"sort"
)

// Builder 定义了解析器构建器的接口。
type Builder interface {
	Build(cfg map[string]string) (Parser, error)
}

// Parser 定义了解析器的接口。
type Parser interface {
	// ParseStream 解析 r 直到流结束、出错或被停止，解析结果逐条写入 sink。
	ParseStream(ctx context.Context, r io.Reader, sink Sink) error
	Stop() error
}

// StatusParser 扩展了Parser接口，增加了Status方法。
type StatusParser interface {
	Parser
	Status() (map[string]string, error)
}

// RecordKind 记录的种类。
type RecordKind string

const (
	RecordHeader  RecordKind = "header"
	RecordTag     RecordKind = "tag"
	RecordSummary RecordKind = "summary"
)

// Field 一个 (字段名, 值) 对，Label 为可选的可读说明。
type Field struct {
	Group string      `json:"group,omitempty"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
	Label string      `json:"label,omitempty"`
}

// Record 解析器输出的一条结构化记录，与具体的展示格式无关。
type Record struct {
	Kind   RecordKind `json:"kind"`
	Index  uint32     `json:"index"`
	Offset int64      `json:"offset"`
	Fields []Field    `json:"fields"`
}

// Lookup 返回第一个名为 name 的字段。
func (r *Record) Lookup(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Sink 接收解析记录，例如文本报告、JSON 输出。
type Sink interface {
	WriteRecord(rec *Record) error
}

var m = make(map[string]Builder)

// Register 用于注册解析器构建器。
func Register(name string, b Builder) {
	m[name] = b
}

// Names 返回已注册的解析器名称。
func Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New 根据名称和配置创建新的解析器实例。
func New(name string, cfg map[string]string) (Parser, error) {
	builder, ok := m[name]
	if !ok {
		return nil, errors.New("未知解析器: " + name)
	}
	return builder.Build(cfg)
}
