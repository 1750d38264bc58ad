package flv

type (
	FrameType     uint8
	CodeID        uint8
	AVCPacketType uint8

	// VideoData 视频标签的负载，Body 为 *AVCPacket、*OpaqueData 或 *SeekMarker 之一。
	VideoData struct {
		FrameType FrameType
		CodeID    CodeID
		Body      VideoBody
	}

	// VideoBody 视频负载中视频标签头之后的部分。
	VideoBody interface {
		isVideoBody()
		Len() uint32
	}

	// AVCPacket AVCVIDEOPACKET
	AVCPacket struct {
		AVCPacketType   AVCPacketType
		CompositionTime int32
		NALULength      uint32 // 仅当 AVCPacketType == AVCNALU 时有效
		Data            []byte
	}

	// OpaqueData 非AVC编码的视频数据，不做进一步解析。
	OpaqueData struct {
		Data []byte
	}

	// SeekMarker 视频信息/命令帧携带的客户端seek序列标记。
	SeekMarker struct {
		Marker    uint8
		Discarded uint32 // 标记字节之后被丢弃的字节数
	}
)

const (
	// 帧类型
	KeyFrame             FrameType = 1 // AVC中的关键帧，可寻址帧
	InterFrame           FrameType = 2 // AVC中的非关键帧，不可寻址帧
	DisposableInterFrame FrameType = 3 // 仅用于H.263
	GeneratedKeyFrame    FrameType = 4 // 仅服务器使用
	VideoInfoFrame       FrameType = 5 // 视频信息/命令帧

	// 编码标识
	H263Code          CodeID = 2 // Sorenson H.263
	ScreenVideoCode   CodeID = 3 // 屏幕视频
	VP6Code           CodeID = 4 // On2 VP6
	VP6AlphaCode      CodeID = 5 // 带Alpha通道的On2 VP6
	ScreenVideoV2Code CodeID = 6 // 屏幕视频版本2
	AVCCode           CodeID = 7 // AVC

	// AVC包类型
	AVCSeqHeader AVCPacketType = 0 // AVC序列头
	AVCNALU      AVCPacketType = 1 // NAL单元
	AVCEndSeq    AVCPacketType = 2 // AVC序列结束（不需要或不支持较低级别的NALU序列结束）
)

const (
	videoHeaderLen   uint32 = 1
	seekMarkerLen    uint32 = 1
	avcHeaderLen     uint32 = 4 // AVCPacketType + CompositionTime
	avcNALULengthLen uint32 = 4
)

func (t FrameType) String() string {
	switch t {
	case KeyFrame:
		return "keyframe (for AVC, a seekable frame)"
	case InterFrame:
		return "inter frame (for AVC, a non-seekable frame)"
	case DisposableInterFrame:
		return "disposable inter frame (H.263 only)"
	case GeneratedKeyFrame:
		return "generated keyframe (reserved for server use only)"
	case VideoInfoFrame:
		return "video info/command frame"
	default:
		return "not defined by standard"
	}
}

func (id CodeID) String() string {
	switch id {
	case H263Code:
		return "Sorenson H.263"
	case ScreenVideoCode:
		return "Screen video"
	case VP6Code:
		return "On2 VP6"
	case VP6AlphaCode:
		return "On2 VP6 with alpha channel"
	case ScreenVideoV2Code:
		return "Screen video version 2"
	case AVCCode:
		return "AVC"
	default:
		return "not defined by standard"
	}
}

// PacketName 返回非AVC视频包的规范名称。
func (id CodeID) PacketName() string {
	switch id {
	case H263Code:
		return "H263VIDEOPACKET"
	case ScreenVideoCode:
		return "SCREENVIDEOPACKET"
	case VP6Code:
		return "VP6FLVVIDEOPACKET"
	case VP6AlphaCode:
		return "VP6FLVALPHAVIDEOPACKET"
	case ScreenVideoV2Code:
		return "SCREENV2VIDEOPACKET"
	case AVCCode:
		return "AVCVIDEOPACKET"
	default:
		return ""
	}
}

func (t AVCPacketType) String() string {
	switch t {
	case AVCSeqHeader:
		return "AVC sequence header"
	case AVCNALU:
		return "AVC NALU"
	case AVCEndSeq:
		return "AVC end of sequence"
	default:
		return "not defined by standard"
	}
}

func (*VideoData) isPayload() {}

// Len 返回该负载在标签中占用的字节数。
func (v *VideoData) Len() uint32 {
	if v.Body == nil {
		return videoHeaderLen
	}
	return videoHeaderLen + v.Body.Len()
}

func (*AVCPacket) isVideoBody()  {}
func (*OpaqueData) isVideoBody() {}
func (*SeekMarker) isVideoBody() {}

// Len 包含 AVC 包头、NALU 长度字段（仅 NALU）和数据。
func (p *AVCPacket) Len() uint32 {
	l := avcHeaderLen + uint32(len(p.Data))
	if p.AVCPacketType == AVCNALU {
		l += avcNALULengthLen
	}
	return l
}

// Len 返回未解析数据的长度。
func (o *OpaqueData) Len() uint32 {
	return uint32(len(o.Data))
}

// Len 包含标记字节和被丢弃的字节。
func (m *SeekMarker) Len() uint32 {
	return seekMarkerLen + m.Discarded
}

// IsStart 标记为 0 表示客户端seek序列开始，非 0 表示结束。
func (m *SeekMarker) IsStart() bool {
	return m.Marker == 0
}

// readVideoData 解析视频标签，size 为标签头声明的负载长度
func readVideoData(c *Cursor, size uint32, signExtend bool) (*VideoData, error) {
	if size < videoHeaderLen {
		return nil, readErr(c, "FrameType", ErrUnderflowInLength)
	}
	b, err := c.ReadU8()
	if err != nil {
		return nil, readErr(c, "FrameType", err)
	}
	l := size - videoHeaderLen

	tag := new(VideoData)
	tag.FrameType = FrameType(Bits(b, 4, 4))
	tag.CodeID = CodeID(Bits(b, 0, 4))

	switch {
	case tag.FrameType == VideoInfoFrame:
		// 视频信息帧只有一个标记字节，多余部分丢弃以保持对齐
		if l < seekMarkerLen {
			return nil, readErr(c, "SeekMarker", ErrUnderflowInLength)
		}
		m := new(SeekMarker)
		if m.Marker, err = c.ReadU8(); err != nil {
			return nil, readErr(c, "SeekMarker", err)
		}
		m.Discarded = l - seekMarkerLen
		if err = c.Discard(int64(m.Discarded)); err != nil {
			return nil, readErr(c, "SeekMarker", err)
		}
		tag.Body = m
	case tag.CodeID == AVCCode:
		if tag.Body, err = readAVCPacket(c, l, signExtend); err != nil {
			return nil, err
		}
	default:
		o := new(OpaqueData)
		if o.Data, err = c.ReadBytes(int(l)); err != nil {
			return nil, readErr(c, "VideoData", err)
		}
		tag.Body = o
	}
	return tag, nil
}

// readAVCPacket 解析 AVCVIDEOPACKET，size 为视频标签头之后剩余的长度
func readAVCPacket(c *Cursor, size uint32, signExtend bool) (*AVCPacket, error) {
	if size < avcHeaderLen {
		return nil, readErr(c, "AVCPacketType", ErrUnderflowInLength)
	}
	p := new(AVCPacket)
	b, err := c.ReadU8()
	if err != nil {
		return nil, readErr(c, "AVCPacketType", err)
	}
	p.AVCPacketType = AVCPacketType(b)

	ct, err := c.ReadU24BE()
	if err != nil {
		return nil, readErr(c, "CompositionTime", err)
	}
	p.CompositionTime = compositionTime(ct, signExtend)
	l := size - avcHeaderLen

	if p.AVCPacketType == AVCNALU {
		if l < avcNALULengthLen {
			return nil, readErr(c, "NALULength", ErrUnderflowInLength)
		}
		if p.NALULength, err = c.ReadU32BE(); err != nil {
			return nil, readErr(c, "NALULength", err)
		}
		l -= avcNALULengthLen
	}

	if p.Data, err = c.ReadBytes(int(l)); err != nil {
		return nil, readErr(c, "AVCData", err)
	}
	return p, nil
}

// compositionTime CompositionTime 为 SI24，signExtend 为 false 时保留无符号读数
func compositionTime(v uint32, signExtend bool) int32 {
	if signExtend {
		return int32(v<<8) >> 8
	}
	return int32(v)
}
