package flv

import (
	"bytes"
)

const (
	// HeaderSize FLV文件头的固定长度
	HeaderSize = 9

	// TypeFlags: Reserved UB[5], Audio UB[1], Reserved UB[1], Video UB[1]
	audioFlagBit = 2
	videoFlagBit = 0
)

var flvSign = []byte{0x46, 0x4c, 0x56} // "FLV"

// Header FLV文件头。
type Header struct {
	Signature  [3]byte
	Version    uint8
	Flags      uint8
	HasAudio   bool
	HasVideo   bool
	DataOffset uint32 // 仅用于展示，标签解析总是紧接在 9 字节文件头之后开始
}

// ReadHeader 解析 9 字节的FLV文件头，签名不匹配时立即返回 ErrBadSignature。
func ReadHeader(c *Cursor) (*Header, error) {
	h := new(Header)

	sign, err := c.ReadBytes(len(flvSign))
	if err != nil {
		return nil, readErr(c, "Signature", err)
	}
	if !bytes.Equal(sign, flvSign) {
		return nil, &fieldError{field: "Signature", offset: 0, err: ErrBadSignature}
	}
	copy(h.Signature[:], sign)

	if h.Version, err = c.ReadU8(); err != nil {
		return nil, readErr(c, "Version", err)
	}
	if h.Flags, err = c.ReadU8(); err != nil {
		return nil, readErr(c, "TypeFlags", err)
	}
	h.HasAudio = Bits(h.Flags, audioFlagBit, 1) == 1
	h.HasVideo = Bits(h.Flags, videoFlagBit, 1) == 1

	if h.DataOffset, err = c.ReadU32BE(); err != nil {
		return nil, readErr(c, "DataOffset", err)
	}
	return h, nil
}
