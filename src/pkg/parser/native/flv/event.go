package flv

import "github.com/yuhaohwang/flv-inspector/src/pkg/events"

// 解析过程中分发的事件，同步分发，处理函数返回前事件对象有效。
const (
	HeaderParsed  events.EventType = "FlvHeaderParsed"  // Object: *Header
	TagParsed     events.EventType = "FlvTagParsed"     // Object: *Tag
	ParseFinished events.EventType = "FlvParseFinished" // Object: *Summary
	ParseFailed   events.EventType = "FlvParseFailed"   // Object: error
)
