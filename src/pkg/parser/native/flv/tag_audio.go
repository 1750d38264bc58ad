package flv

type (
	SoundFormat   uint8
	SoundRate     uint8
	SoundSize     uint8
	SoundType     uint8
	AACPacketType uint8

	// AudioData 音频标签的负载。
	AudioData struct {
		SoundFormat   SoundFormat
		SoundRate     SoundRate
		SoundSize     SoundSize
		SoundType     SoundType
		AACPacketType AACPacketType // 仅当 SoundFormat == AAC 时有效
		Data          []byte
	}
)

const (
	// SoundFormat
	LPCM_PE         SoundFormat = 0 // 线性PCM，平台字节序
	ADPCM           SoundFormat = 1
	MP3             SoundFormat = 2
	LPCM_LE         SoundFormat = 3 // 线性PCM，小端字节序
	Nellymoser16kHz SoundFormat = 4
	Nellymoser8kHz  SoundFormat = 5
	Nellymoser      SoundFormat = 6
	G711ALaw        SoundFormat = 7
	G711MuLaw       SoundFormat = 8
	AAC             SoundFormat = 10
	Speex           SoundFormat = 11
	MP3_8kHz        SoundFormat = 14 // MP3 8千赫兹
	DeviceSpecific  SoundFormat = 15

	// SoundRate
	Rate5kHz  SoundRate = 0 // 5.5千赫兹
	Rate11kHz SoundRate = 1 // 11千赫兹
	Rate22kHz SoundRate = 2 // 22千赫兹
	Rate44kHz SoundRate = 3 // 44千赫兹

	// SoundSize
	Sample8  SoundSize = 0 // 8位样本
	Sample16 SoundSize = 1 // 16位样本

	// SoundType
	Mono   SoundType = 0 // 单声道音频
	Stereo SoundType = 1 // 立体声音频

	// AACPacketType
	AACSeqHeader AACPacketType = 0
	AACRaw       AACPacketType = 1
)

const (
	audioHeaderLen   uint32 = 1
	aacPacketTypeLen uint32 = 1
)

var soundFormatNames = [16]string{
	"Linear PCM, platform endian",
	"ADPCM",
	"MP3",
	"Linear PCM, little endian",
	"Nellymoser 16 kHz mono",
	"Nellymoser 8 kHz mono",
	"Nellymoser",
	"G.711 A-law logarithmic PCM",
	"G.711 mu-law logarithmic PCM",
	"reserved",
	"AAC",
	"Speex",
	"not defined by standard",
	"not defined by standard",
	"MP3 8-Khz",
	"Device-specific sound",
}

func (f SoundFormat) String() string {
	return soundFormatNames[f&0x0f]
}

func (r SoundRate) String() string {
	return [4]string{"5.5 Khz", "11 Khz", "22 Khz", "44 Khz"}[r&0x03]
}

func (s SoundSize) String() string {
	if s == Sample8 {
		return "8-bit samples"
	}
	return "16-bit samples"
}

func (t SoundType) String() string {
	if t == Mono {
		return "Mono sound"
	}
	return "Stereo sound"
}

func (t AACPacketType) String() string {
	if t == AACSeqHeader {
		return "AAC sequence header"
	}
	return "AAC raw"
}

func (*AudioData) isPayload() {}

// HasAACPacketType 只有AAC音频携带 AACPacketType 字段。
func (a *AudioData) HasAACPacketType() bool {
	return a.SoundFormat == AAC
}

// Len 返回该负载在标签中占用的字节数。
func (a *AudioData) Len() uint32 {
	l := audioHeaderLen + uint32(len(a.Data))
	if a.HasAACPacketType() {
		l += aacPacketTypeLen
	}
	return l
}

// readAudioData 解析音频标签，size 为标签头声明的负载长度
func readAudioData(c *Cursor, size uint32) (*AudioData, error) {
	if size < audioHeaderLen {
		return nil, readErr(c, "SoundFormat", ErrUnderflowInLength)
	}
	b, err := c.ReadU8()
	if err != nil {
		return nil, readErr(c, "SoundFormat", err)
	}
	l := size - audioHeaderLen

	tag := new(AudioData)
	tag.SoundFormat = SoundFormat(Bits(b, 4, 4))
	tag.SoundRate = SoundRate(Bits(b, 2, 2))
	tag.SoundSize = SoundSize(Bits(b, 1, 1))
	tag.SoundType = SoundType(Bits(b, 0, 1))

	if tag.SoundFormat == AAC {
		if l < aacPacketTypeLen {
			return nil, readErr(c, "AACPacketType", ErrUnderflowInLength)
		}
		b, err := c.ReadU8()
		if err != nil {
			return nil, readErr(c, "AACPacketType", err)
		}
		tag.AACPacketType = AACPacketType(b)
		l -= aacPacketTypeLen
	}

	if tag.Data, err = c.ReadBytes(int(l)); err != nil {
		return nil, readErr(c, "SoundData", err)
	}
	return tag, nil
}
