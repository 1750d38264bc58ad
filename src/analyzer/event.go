package analyzer

import "github.com/yuhaohwang/flv-inspector/src/pkg/events"

// AnalyzeStart 是一个事件类型，表示开始分析一个输入。
const AnalyzeStart events.EventType = "AnalyzeStart"

// AnalyzeStop 是一个事件类型，表示分析结束，无论成功与否。
const AnalyzeStop events.EventType = "AnalyzeStop"
