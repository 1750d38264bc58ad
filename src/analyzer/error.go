package analyzer

import "errors"

var (
	// ErrParserNotSupportStatus 表示解析器不支持获取状态的错误。
	ErrParserNotSupportStatus = errors.New("parser not support get status")

	// ErrAnalyzerStarted 表示分析器已经运行过，一个分析器只能运行一次。
	ErrAnalyzerStarted = errors.New("analyzer is already started")
)
