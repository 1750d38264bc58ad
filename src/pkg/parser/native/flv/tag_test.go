package flv

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireParseError(t *testing.T, err error) *ParseError {
	t.Helper()
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "unexpected error: %v", err)
	return pe
}

func TestTagReaderAACTag(t *testing.T) {
	s := newStream(0x05).tag(0x08, 0, []byte{0xAF, 0x01}).trailer()
	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())

	h, err := tr.ReadHeader()
	require.NoError(t, err)
	assert.True(t, h.HasAudio)

	tag, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tag.Index)
	assert.Equal(t, int64(13), tag.Offset)
	assert.Equal(t, uint32(0), tag.PreviousTagSize)
	assert.Equal(t, AudioTag, tag.Type)
	assert.False(t, tag.Filter)
	assert.Equal(t, uint32(2), tag.DataSize)
	assert.Zero(t, tag.Timestamp)
	assert.Zero(t, tag.StreamID)

	a, ok := tag.Payload.(*AudioData)
	require.True(t, ok)
	assert.Equal(t, AAC, a.SoundFormat)
	assert.Equal(t, Rate44kHz, a.SoundRate)
	assert.Equal(t, Sample16, a.SoundSize)
	assert.Equal(t, Stereo, a.SoundType)
	assert.Equal(t, AACRaw, a.AACPacketType)
	assert.Empty(t, a.Data)
	assert.Equal(t, tag.DataSize, tag.Payload.Len())

	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
	assert.Equal(t, uint32(1), tr.TagCount())
	assert.Equal(t, int64(len(s.Bytes())), tr.Offset())
}

func TestTagReaderEndOfStream(t *testing.T) {
	// 只有文件头
	tr := NewTagReader(bytes.NewReader(newStream(0x05).Bytes()), DefaultOptions())
	_, err := tr.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)

	// 文件头加 PreviousTagSize0
	tr = NewTagReader(bytes.NewReader(newStream(0x05).trailer().Bytes()), DefaultOptions())
	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
	assert.Zero(t, tr.TagCount())
}

func TestTagReaderBadSignature(t *testing.T) {
	tr := NewTagReader(bytes.NewReader([]byte{0x46, 0x4C, 0x58, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09}), DefaultOptions())

	_, err := tr.Next()
	pe := requireParseError(t, err)
	assert.Equal(t, KindBadSignature, pe.Kind)
	assert.Equal(t, uint32(0), pe.TagIndex)
	assert.Equal(t, int64(0), pe.Offset)
	assert.Equal(t, "Signature", pe.Field)
	assert.Zero(t, tr.TagCount())
}

func TestTagReaderTimestampAndFilter(t *testing.T) {
	s := newStream(0x01).tag(0x29, 0x01000010, []byte{0x22, 0x00}).trailer()
	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())

	tag, err := tr.Next()
	require.NoError(t, err)
	assert.True(t, tag.Filter)
	assert.Equal(t, VideoTag, tag.Type)
	assert.Equal(t, uint32(0x10), tag.Timestamp)
	assert.Equal(t, uint8(1), tag.TimestampExtended)
	assert.Equal(t, uint32(0x01000010), tag.ExtendedTimestamp())
}

func TestTagReaderMixedTags(t *testing.T) {
	meta := onMetaData(1)
	meta.str("duration").number(3)
	meta.objectEnd()

	s := newStream(0x05).
		tag(0x12, 0, meta.Bytes()).
		tag(0x09, 0, []byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x01}).
		tag(0x08, 0, []byte{0xAF, 0x00, 0x12, 0x10}).
		tag(0x09, 40, []byte{0x27, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x41}).
		trailer()
	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())

	var tags []*Tag
	for {
		tag, err := tr.Next()
		if errors.Is(err, ErrEndOfStream) {
			break
		}
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	require.Len(t, tags, 4)

	assert.IsType(t, &ScriptData{}, tags[0].Payload)
	assert.IsType(t, &VideoData{}, tags[1].Payload)
	assert.IsType(t, &AudioData{}, tags[2].Payload)
	assert.Equal(t, uint32(40), tags[3].Timestamp)
	assert.Equal(t, uint32(TagHeaderSize+len(meta.Bytes())), tags[1].PreviousTagSize)
	for i, tag := range tags {
		assert.Equal(t, uint32(i+1), tag.Index)
		assert.Equal(t, tag.DataSize, tag.Payload.Len())
	}
	assert.Equal(t, tags[0].Offset+int64(TagHeaderSize)+int64(tags[0].DataSize)+4, tags[1].Offset)
}

func TestTagReaderUnknownTagSkip(t *testing.T) {
	s := newStream(0x04).
		tag(0x0F, 0, []byte{0x01, 0x02, 0x03}).
		tag(0x08, 0, []byte{0x2A, 0xff}).
		trailer()
	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())

	_, err := tr.Next()
	pe := requireParseError(t, err)
	assert.Equal(t, KindUnknownTagType, pe.Kind)
	assert.Equal(t, uint32(1), pe.TagIndex)
	assert.Equal(t, int64(13), pe.Offset)
	assert.ErrorIs(t, err, ErrUnknownTag)

	// 未跳过时保持失败状态
	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrUnknownTag)

	require.NoError(t, tr.Skip())
	tag, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tag.Index)
	assert.Equal(t, AudioTag, tag.Type)

	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestTagReaderSkipOtherErrors(t *testing.T) {
	s := newStream(0x04)
	s.u32(0)
	s.Write([]byte{0x08, 0x00, 0x00, 0x0a})
	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())

	_, err := tr.Next()
	pe := requireParseError(t, err)
	assert.Equal(t, KindTruncatedInput, pe.Kind)
	assert.Equal(t, "Timestamp", pe.Field)
	assert.Equal(t, err, tr.Skip())
}

func TestTagReaderTruncatedPayload(t *testing.T) {
	s := newStream(0x04).tag(0x08, 0, []byte{0x2A, 0x01, 0x02, 0x03})
	b := s.Bytes()[:s.Len()-2]
	tr := NewTagReader(bytes.NewReader(b), DefaultOptions())

	_, err := tr.Next()
	pe := requireParseError(t, err)
	assert.Equal(t, KindTruncatedInput, pe.Kind)
	assert.Equal(t, uint32(1), pe.TagIndex)
	assert.Equal(t, "SoundData", pe.Field)
	// 文件头 9 + PreviousTagSize 4 + 标签头 11 + 音频头 1
	assert.Equal(t, int64(25), pe.Offset)
	assert.ErrorIs(t, err, ErrTruncatedInput)
	assert.Equal(t, uint32(1), tr.TagCount())

	_, err = tr.Next()
	assert.Equal(t, pe, requireParseError(t, err))
}

func TestTagReaderTruncatedPreviousTagSize(t *testing.T) {
	b := append(newStream(0x04).Bytes(), 0x00, 0x00)
	tr := NewTagReader(bytes.NewReader(b), DefaultOptions())

	_, err := tr.Next()
	pe := requireParseError(t, err)
	assert.Equal(t, KindTruncatedInput, pe.Kind)
	assert.Equal(t, "PreviousTagSize", pe.Field)
	// 偏移指向字段起始处，而不是读取中断处
	assert.Equal(t, int64(9), pe.Offset)
	assert.Equal(t, 1, strings.Count(err.Error(), "PreviousTagSize"), err.Error())
	assert.Contains(t, err.Error(), ErrTruncatedInput.Error())
	assert.Zero(t, tr.TagCount())
}

func TestTagReaderLastPreviousTagSize(t *testing.T) {
	tr := NewTagReader(bytes.NewReader(newStream(0x04).tag(0x08, 0, []byte{0xAF, 0x01}).trailer().Bytes()), DefaultOptions())
	_, ok := tr.LastPreviousTagSize()
	assert.False(t, ok)

	_, err := tr.Next()
	require.NoError(t, err)
	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)

	size, ok := tr.LastPreviousTagSize()
	assert.True(t, ok)
	assert.Equal(t, uint32(13), size)
	assert.Equal(t, int64(30), tr.Offset())
}

func TestTagReaderUnderflow(t *testing.T) {
	s := newStream(0x04).tag(0x08, 0, nil).trailer()
	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())

	_, err := tr.Next()
	pe := requireParseError(t, err)
	assert.Equal(t, KindUnderflowInLength, pe.Kind)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestTagReaderScriptPolicy(t *testing.T) {
	meta := onMetaData(2)
	meta.str("a").number(1)
	meta.str("b").marker(RecordSet)
	meta.objectEnd()
	s := newStream(0x05).tag(0x12, 0, meta.Bytes()).tag(0x08, 0, []byte{0xAF, 0x01}).trailer()

	tr := NewTagReader(bytes.NewReader(s.Bytes()), DefaultOptions())
	_, err := tr.Next()
	assert.Equal(t, KindUnsupportedValueType, requireParseError(t, err).Kind)

	opts := DefaultOptions()
	opts.ScriptValuePolicy = PolicyStop
	tr = NewTagReader(bytes.NewReader(s.Bytes()), opts)
	tag, err := tr.Next()
	require.NoError(t, err)
	assert.True(t, tag.Payload.(*ScriptData).Incomplete)

	// 后续标签不受影响
	tag, err = tr.Next()
	require.NoError(t, err)
	assert.Equal(t, AudioTag, tag.Type)
}
