// 由 MockGen 生成的代码。请勿编辑。
// 源自 github.com/yuhaohwang/flv-inspector/src/pkg/parser (接口：Parser,Sink)

// 包 mock 是一个生成的 GoMock 包。
package mock

import (
	context "context"
	io "io"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
	parser "github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

// MockParser 是 Parser 接口的模拟。
type MockParser struct {
	ctrl     *gomock.Controller
	recorder *MockParserMockRecorder
}

// MockParserMockRecorder 是 MockParser 的模拟记录器。
type MockParserMockRecorder struct {
	mock *MockParser
}

// NewMockParser 创建一个新的模拟实例。
func NewMockParser(ctrl *gomock.Controller) *MockParser {
	mock := &MockParser{ctrl: ctrl}
	mock.recorder = &MockParserMockRecorder{mock}
	return mock
}

// EXPECT 返回一个对象，允许调用者指示预期的使用。
func (m *MockParser) EXPECT() *MockParserMockRecorder {
	return m.recorder
}

// ParseStream 模拟基本方法。
func (m *MockParser) ParseStream(arg0 context.Context, arg1 io.Reader, arg2 parser.Sink) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ParseStream", arg0, arg1, arg2)
	ret0, _ := ret[0].(error)
	return ret0
}

// ParseStream 指示对 ParseStream 的预期调用。
func (mr *MockParserMockRecorder) ParseStream(arg0, arg1, arg2 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ParseStream", reflect.TypeOf((*MockParser)(nil).ParseStream), arg0, arg1, arg2)
}

// Stop 模拟基本方法。
func (m *MockParser) Stop() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stop")
	ret0, _ := ret[0].(error)
	return ret0
}

// Stop 指示对 Stop 的预期调用。
func (mr *MockParserMockRecorder) Stop() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stop", reflect.TypeOf((*MockParser)(nil).Stop))
}

// MockSink 是 Sink 接口的模拟。
type MockSink struct {
	ctrl     *gomock.Controller
	recorder *MockSinkMockRecorder
}

// MockSinkMockRecorder 是 MockSink 的模拟记录器。
type MockSinkMockRecorder struct {
	mock *MockSink
}

// NewMockSink 创建一个新的模拟实例。
func NewMockSink(ctrl *gomock.Controller) *MockSink {
	mock := &MockSink{ctrl: ctrl}
	mock.recorder = &MockSinkMockRecorder{mock}
	return mock
}

// EXPECT 返回一个对象，允许调用者指示预期的使用。
func (m *MockSink) EXPECT() *MockSinkMockRecorder {
	return m.recorder
}

// WriteRecord 模拟基本方法。
func (m *MockSink) WriteRecord(arg0 *parser.Record) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WriteRecord", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// WriteRecord 指示对 WriteRecord 的预期调用。
func (mr *MockSinkMockRecorder) WriteRecord(arg0 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteRecord", reflect.TypeOf((*MockSink)(nil).WriteRecord), arg0)
}
