package flv

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x46, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09}))

	h, err := ReadHeader(c)
	require.NoError(t, err)
	assert.Equal(t, [3]byte{'F', 'L', 'V'}, h.Signature)
	assert.Equal(t, uint8(1), h.Version)
	assert.True(t, h.HasAudio)
	assert.True(t, h.HasVideo)
	assert.Equal(t, uint32(HeaderSize), h.DataOffset)
	assert.Equal(t, int64(HeaderSize), c.Offset())
}

func TestReadHeaderFlags(t *testing.T) {
	for flags, want := range map[uint8][2]bool{
		0x00: {false, false},
		0x01: {false, true},
		0x04: {true, false},
		0xfa: {false, false},
	} {
		c := NewCursor(bytes.NewReader([]byte{'F', 'L', 'V', 0x01, flags, 0x00, 0x00, 0x00, 0x09}))
		h, err := ReadHeader(c)
		require.NoError(t, err)
		assert.Equal(t, want[0], h.HasAudio, "flags %#x", flags)
		assert.Equal(t, want[1], h.HasVideo, "flags %#x", flags)
	}
}

func TestReadHeaderBadSignature(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x46, 0x4C, 0x58, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09}))

	_, err := ReadHeader(c)
	assert.ErrorIs(t, err, ErrBadSignature)
	// 签名错误时不再读取后续字段
	assert.Equal(t, int64(3), c.Offset())
}

func TestReadHeaderTruncated(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{'F', 'L', 'V', 0x01, 0x05, 0x00}))

	_, err := ReadHeader(c)
	assert.ErrorIs(t, err, ErrTruncatedInput)

	var fe *fieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "DataOffset", fe.field)
}
