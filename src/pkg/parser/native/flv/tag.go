package flv

import (
	"errors"
	"io"
)

// TagType 标签类型 UB[5]。
type TagType uint8

const (
	AudioTag  TagType = 8
	VideoTag  TagType = 9
	ScriptTag TagType = 18

	// TagHeaderSize 标签头长度，不含 PreviousTagSize
	TagHeaderSize = 11
)

func (t TagType) String() string {
	switch t {
	case AudioTag:
		return "Audio data"
	case VideoTag:
		return "Video data"
	case ScriptTag:
		return "Script data object"
	default:
		return "Unknown"
	}
}

// Payload 标签负载，为 *AudioData、*VideoData 或 *ScriptData 之一。
type Payload interface {
	isPayload()
	// Len 负载在标签中占用的字节数，总是等于 Tag.DataSize
	Len() uint32
}

// Tag 一个完整解析的FLV标签。
type Tag struct {
	Index             uint32 // 从 1 开始的标签序号
	Offset            int64  // 标签头首字节的偏移
	PreviousTagSize   uint32 // 仅展示，不做校验
	Filter            bool
	Type              TagType
	DataSize          uint32
	Timestamp         uint32 // 低 24 位
	TimestampExtended uint8  // 高 8 位
	StreamID          uint32
	Payload           Payload
}

// ExtendedTimestamp 返回由扩展字节补全的 32 位时间戳，单位毫秒。
func (t *Tag) ExtendedTimestamp() uint32 {
	return uint32(t.TimestampExtended)<<24 | t.Timestamp
}

// Options 控制解析行为。
type Options struct {
	ScriptValuePolicy         ValuePolicy
	SignExtendCompositionTime bool
}

// DefaultOptions 返回默认的解析选项。
func DefaultOptions() Options {
	return Options{
		ScriptValuePolicy:         PolicyFail,
		SignExtendCompositionTime: true,
	}
}

type readerState uint8

const (
	stateScanning readerState = iota
	stateDone
)

// TagReader 依次读取文件头和标签。一个 TagReader 独占其输入，不能并发使用。
type TagReader struct {
	c        *Cursor
	opts     Options
	header   *Header
	tagCount uint32
	state    readerState
	err      error

	// 未知类型标签的负载长度，供 Skip 使用
	pending    uint32
	hasPending bool

	// 流结束前最后一个 PreviousTagSize
	lastPrev    uint32
	hasLastPrev bool
}

// NewTagReader 创建一个新的 TagReader。
func NewTagReader(r io.Reader, opts Options) *TagReader {
	return &TagReader{
		c:     NewCursor(r),
		opts:  opts,
		state: stateScanning,
	}
}

// Offset 返回已消费的字节数。
func (tr *TagReader) Offset() int64 {
	return tr.c.Offset()
}

// TagCount 返回已读出的标签数，包括出错的标签。
func (tr *TagReader) TagCount() uint32 {
	return tr.tagCount
}

// LastPreviousTagSize 返回流结束时最后读到的 PreviousTagSize，
// 即最后一个标签之后的 PreviousTagSize<N>。流在该字段之前结束时 ok 为 false。
func (tr *TagReader) LastPreviousTagSize() (size uint32, ok bool) {
	return tr.lastPrev, tr.hasLastPrev
}

// ReadHeader 读取文件头，只会真正解析一次。
func (tr *TagReader) ReadHeader() (*Header, error) {
	if tr.header != nil {
		return tr.header, nil
	}
	if tr.err != nil {
		return nil, tr.err
	}
	h, err := ReadHeader(tr.c)
	if err != nil {
		return nil, tr.fail(0, err)
	}
	tr.header = h
	return h, nil
}

// Next 读取下一个标签。输入恰好在标签边界结束时返回 ErrEndOfStream。
func (tr *TagReader) Next() (*Tag, error) {
	if tr.state == stateDone {
		if tr.err != nil {
			return nil, tr.err
		}
		return nil, ErrEndOfStream
	}
	if _, err := tr.ReadHeader(); err != nil {
		return nil, err
	}

	// 1. PreviousTagSize，仅展示
	if tr.c.AtCleanBoundary() {
		return tr.finish()
	}
	prev, err := tr.c.ReadU32BE()
	if err != nil {
		return nil, tr.fail(tr.tagCount+1, readErr(tr.c, "PreviousTagSize", err))
	}

	// 2. 标签首字节，恰好在此结束说明流已读完
	if tr.c.AtCleanBoundary() {
		tr.lastPrev, tr.hasLastPrev = prev, true
		return tr.finish()
	}
	tag := &Tag{
		Index:           tr.tagCount + 1,
		Offset:          tr.c.Offset(),
		PreviousTagSize: prev,
	}
	tr.tagCount++

	// 3. 标签头
	if err := tr.readTagHeader(tag); err != nil {
		return nil, tr.fail(tag.Index, err)
	}

	// 4. 按类型分发负载解析
	switch tag.Type {
	case AudioTag:
		tag.Payload, err = readAudioData(tr.c, tag.DataSize)
	case VideoTag:
		tag.Payload, err = readVideoData(tr.c, tag.DataSize, tr.opts.SignExtendCompositionTime)
	case ScriptTag:
		tag.Payload, err = readScriptData(tr.c, tag.DataSize, tr.opts.ScriptValuePolicy)
	default:
		tr.pending, tr.hasPending = tag.DataSize, true
		err = &fieldError{field: "TagType", offset: tag.Offset, err: ErrUnknownTag}
	}
	if err != nil {
		return nil, tr.fail(tag.Index, err)
	}
	return tag, nil
}

func (tr *TagReader) readTagHeader(tag *Tag) error {
	b, err := tr.c.ReadU8()
	if err != nil {
		return readErr(tr.c, "TagType", err)
	}
	// Reserved UB[2], Filter UB[1], TagType UB[5]
	tag.Filter = Bits(b, 5, 1) == 1
	tag.Type = TagType(Bits(b, 0, 5))

	if tag.DataSize, err = tr.c.ReadU24BE(); err != nil {
		return readErr(tr.c, "DataSize", err)
	}
	if tag.Timestamp, err = tr.c.ReadU24BE(); err != nil {
		return readErr(tr.c, "Timestamp", err)
	}
	if tag.TimestampExtended, err = tr.c.ReadU8(); err != nil {
		return readErr(tr.c, "TimestampExtended", err)
	}
	if tag.StreamID, err = tr.c.ReadU24BE(); err != nil {
		return readErr(tr.c, "StreamID", err)
	}
	return nil
}

// Skip 跳过刚刚因类型未知而失败的标签的负载，之后可以继续调用 Next。
// 其它错误无法跳过，原样返回。
func (tr *TagReader) Skip() error {
	var pe *ParseError
	if !tr.hasPending || !errors.As(tr.err, &pe) || pe.Kind != KindUnknownTagType {
		return tr.err
	}
	n := tr.pending
	tr.pending, tr.hasPending = 0, false
	if err := tr.c.Discard(int64(n)); err != nil {
		return tr.fail(pe.TagIndex, readErr(tr.c, "TagData", err))
	}
	tr.state, tr.err = stateScanning, nil
	return nil
}

func (tr *TagReader) finish() (*Tag, error) {
	tr.state = stateDone
	return nil, ErrEndOfStream
}

func (tr *TagReader) fail(tagIndex uint32, err error) error {
	tr.state = stateDone
	tr.err = newParseError(tagIndex, tr.c.Offset(), err)
	return tr.err
}
