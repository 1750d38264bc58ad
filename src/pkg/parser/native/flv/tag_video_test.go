package flv

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVideoDataAVCNALU(t *testing.T) {
	payload := []byte{
		0x17,                   // 关键帧, AVC
		0x01,                   // NALU
		0x00, 0x00, 0x28,       // CompositionTime 40
		0x00, 0x00, 0x00, 0x03, // NALU 长度
		0x65, 0x88, 0x84,
	}
	c := NewCursor(bytes.NewReader(payload))

	v, err := readVideoData(c, uint32(len(payload)), true)
	require.NoError(t, err)
	assert.Equal(t, KeyFrame, v.FrameType)
	assert.Equal(t, AVCCode, v.CodeID)

	p, ok := v.Body.(*AVCPacket)
	require.True(t, ok)
	assert.Equal(t, AVCNALU, p.AVCPacketType)
	assert.Equal(t, int32(40), p.CompositionTime)
	assert.Equal(t, uint32(3), p.NALULength)
	// 数据长度为负载长度减去 1+1+3+4
	assert.Equal(t, []byte{0x65, 0x88, 0x84}, p.Data)
	assert.Equal(t, uint32(len(payload)), v.Len())
}

func TestReadVideoDataAVCSeqHeader(t *testing.T) {
	payload := []byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x01, 0x64, 0x00, 0x1f}
	c := NewCursor(bytes.NewReader(payload))

	v, err := readVideoData(c, uint32(len(payload)), true)
	require.NoError(t, err)
	p := v.Body.(*AVCPacket)
	assert.Equal(t, AVCSeqHeader, p.AVCPacketType)
	assert.Zero(t, p.NALULength)
	// 序列头没有 NALU 长度字段，数据长度为负载长度减去 5
	assert.Equal(t, []byte{0x01, 0x64, 0x00, 0x1f}, p.Data)
}

func TestCompositionTimeSign(t *testing.T) {
	payload := []byte{0x27, 0x02, 0xff, 0xff, 0xd8}

	v, err := readVideoData(NewCursor(bytes.NewReader(payload)), 5, true)
	require.NoError(t, err)
	assert.Equal(t, int32(-40), v.Body.(*AVCPacket).CompositionTime)

	v, err = readVideoData(NewCursor(bytes.NewReader(payload)), 5, false)
	require.NoError(t, err)
	assert.Equal(t, int32(0xffffd8), v.Body.(*AVCPacket).CompositionTime)
	assert.Equal(t, AVCEndSeq, v.Body.(*AVCPacket).AVCPacketType)
}

func TestReadVideoDataSeekMarker(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x57, 0x00, 0xde, 0xad, 0x01}))

	v, err := readVideoData(c, 4, true)
	require.NoError(t, err)
	assert.Equal(t, VideoInfoFrame, v.FrameType)
	m, ok := v.Body.(*SeekMarker)
	require.True(t, ok)
	assert.True(t, m.IsStart())
	assert.Equal(t, uint32(2), m.Discarded)
	assert.Equal(t, uint32(4), v.Len())
	// 多余字节被丢弃，游标停在负载末尾
	assert.Equal(t, int64(4), c.Offset())

	v, err = readVideoData(NewCursor(bytes.NewReader([]byte{0x52, 0x01})), 2, true)
	require.NoError(t, err)
	assert.False(t, v.Body.(*SeekMarker).IsStart())
}

func TestReadVideoDataOpaque(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x22, 0x00, 0x00, 0x84}))

	v, err := readVideoData(c, 4, true)
	require.NoError(t, err)
	assert.Equal(t, InterFrame, v.FrameType)
	assert.Equal(t, H263Code, v.CodeID)
	o, ok := v.Body.(*OpaqueData)
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x00, 0x84}, o.Data)
	assert.Equal(t, "H263VIDEOPACKET", v.CodeID.PacketName())
}

func TestReadVideoDataUnderflow(t *testing.T) {
	_, err := readVideoData(NewCursor(bytes.NewReader(nil)), 0, true)
	assert.ErrorIs(t, err, ErrUnderflowInLength)

	_, err = readVideoData(NewCursor(bytes.NewReader([]byte{0x50})), 1, true)
	assert.ErrorIs(t, err, ErrUnderflowInLength)

	_, err = readVideoData(NewCursor(bytes.NewReader([]byte{0x17, 0x00, 0x00})), 3, true)
	assert.ErrorIs(t, err, ErrUnderflowInLength)

	// NALU 缺少长度字段
	_, err = readVideoData(NewCursor(bytes.NewReader([]byte{0x17, 0x01, 0x00, 0x00, 0x00, 0x00})), 6, true)
	assert.ErrorIs(t, err, ErrUnderflowInLength)
}

func TestVideoLabels(t *testing.T) {
	assert.Equal(t, "AVC", AVCCode.String())
	assert.Equal(t, "not defined by standard", CodeID(12).String())
	assert.Equal(t, "video info/command frame", VideoInfoFrame.String())
	assert.Equal(t, "AVC NALU", AVCNALU.String())
}
