package flv

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream 表示输入恰好在标签边界处结束，不属于错误。
	ErrEndOfStream = errors.New("FLV流结束")

	ErrBadSignature         = errors.New("非FLV流")
	ErrTruncatedInput       = errors.New("输入数据不完整")
	ErrUnknownTag           = errors.New("未知标签")
	ErrUnderflowInLength    = fmt.Errorf("%w: 声明长度小于固定头部长度", ErrTruncatedInput)
	ErrUnsupportedValueType = errors.New("不支持的AMF数据类型")
)

// ErrorKind 对致命解析错误进行分类。
type ErrorKind uint8

const (
	KindTruncatedInput ErrorKind = iota + 1
	KindBadSignature
	KindUnknownTagType
	KindUnderflowInLength
	KindUnsupportedValueType
)

func (k ErrorKind) String() string {
	switch k {
	case KindTruncatedInput:
		return "TruncatedInput"
	case KindBadSignature:
		return "BadSignature"
	case KindUnknownTagType:
		return "UnknownTagType"
	case KindUnderflowInLength:
		return "UnderflowInLength"
	case KindUnsupportedValueType:
		return "UnsupportedValueType"
	default:
		return "Unknown"
	}
}

// ParseError 携带定位一次致命解析错误所需的上下文。
type ParseError struct {
	Kind     ErrorKind
	Offset   int64  // 出错字段的起始偏移，没有字段时为检测到错误时的偏移
	TagIndex uint32 // 从 1 开始，0 表示文件头
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		cause := e.Err
		var fe *fieldError
		if errors.As(e.Err, &fe) {
			cause = fe.err
		}
		return fmt.Sprintf("%s(标签%d, 偏移%d, 字段%s): %v", e.Kind, e.TagIndex, e.Offset, e.Field, cause)
	}
	return fmt.Sprintf("%s(标签%d, 偏移%d): %v", e.Kind, e.TagIndex, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// fieldError 记录出错的字段名和该字段的起始偏移。
type fieldError struct {
	field  string
	offset int64
	err    error
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.err.Error()
}

func (e *fieldError) Unwrap() error {
	return e.err
}

func readErr(c *Cursor, field string, err error) error {
	var fe *fieldError
	if errors.As(err, &fe) {
		return err
	}
	return &fieldError{field: field, offset: c.errOffset(), err: err}
}

// kindOf 按从具体到一般的顺序匹配哨兵错误。
func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrBadSignature):
		return KindBadSignature
	case errors.Is(err, ErrUnknownTag):
		return KindUnknownTagType
	case errors.Is(err, ErrUnderflowInLength):
		return KindUnderflowInLength
	case errors.Is(err, ErrUnsupportedValueType):
		return KindUnsupportedValueType
	default:
		return KindTruncatedInput
	}
}

func newParseError(tagIndex uint32, offset int64, err error) *ParseError {
	pe := &ParseError{
		Kind:     kindOf(err),
		Offset:   offset,
		TagIndex: tagIndex,
		Err:      err,
	}
	var fe *fieldError
	if errors.As(err, &fe) {
		pe.Field = fe.field
		pe.Offset = fe.offset
	}
	return pe
}
