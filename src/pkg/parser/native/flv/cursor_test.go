package flv

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReadsBigEndian(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{
		0x01,
		0x01, 0x02,
		0x01, 0x02, 0x03,
		0x01, 0x02, 0x03, 0x04,
		0x40, 0x59, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}))

	u8, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := c.ReadU16BE()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)

	u24, err := c.ReadU24BE()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x010203), u24)

	u32, err := c.ReadU32BE()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	f, err := c.ReadF64BE()
	require.NoError(t, err)
	assert.Equal(t, 100.0, f)

	assert.Equal(t, int64(18), c.Offset())
	assert.True(t, c.AtCleanBoundary())
}

func TestCursorTruncated(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x01, 0x02}))
	_, err := c.ReadU24BE()
	assert.ErrorIs(t, err, ErrTruncatedInput)

	c = NewCursor(bytes.NewReader(nil))
	_, err = c.ReadU8()
	assert.ErrorIs(t, err, ErrTruncatedInput)

	c = NewCursor(bytes.NewReader([]byte{0x01}))
	_, err = c.ReadBytes(2)
	assert.ErrorIs(t, err, ErrTruncatedInput)

	c = NewCursor(bytes.NewReader([]byte{0x01}))
	assert.ErrorIs(t, c.Discard(2), ErrTruncatedInput)
}

func TestCursorErrOffset(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	assert.Equal(t, int64(0), c.errOffset())

	_, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.errOffset())

	// 读取失败后报告该次读取的起始偏移
	_, err = c.ReadU32BE()
	assert.ErrorIs(t, err, ErrTruncatedInput)
	assert.Equal(t, int64(4), c.Offset())
	assert.Equal(t, int64(1), c.errOffset())

	fe := readErr(c, "Field", err).(*fieldError)
	assert.Equal(t, int64(1), fe.offset)
	pe := newParseError(1, c.Offset(), fe)
	assert.Equal(t, "TruncatedInput(标签1, 偏移1, 字段Field): "+ErrTruncatedInput.Error(), pe.Error())
}

func TestCursorReadBytes(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x01, 0x02, 0x03}))

	b, err := c.ReadBytes(0)
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = c.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, b)
	assert.False(t, c.AtCleanBoundary())

	_, err = c.ReadBytes(-1)
	assert.ErrorIs(t, err, ErrUnderflowInLength)
}

func TestCursorWindow(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0xaa, 0x01, 0x02, 0x03, 0xbb}))
	_, err := c.ReadU8()
	require.NoError(t, err)

	w, err := c.Window(3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.Offset())
	assert.Equal(t, int64(3), w.Remaining())
	assert.Equal(t, int64(4), c.Offset())
	assert.Equal(t, int64(-1), c.Remaining())

	v, err := w.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), v)
	assert.Equal(t, int64(2), w.Offset())

	// 窗口之外的数据不可见
	_, err = w.ReadBytes(3)
	assert.ErrorIs(t, err, ErrTruncatedInput)
	_, err = w.ReadU32BE()
	assert.ErrorIs(t, err, ErrTruncatedInput)

	v, err = c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xbb), v)

	_, err = c.Window(1)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}
