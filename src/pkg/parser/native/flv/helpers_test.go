package flv

import (
	"bytes"
	"encoding/binary"
	"math"
)

// streamBuilder 拼装测试用的FLV字节流
type streamBuilder struct {
	bytes.Buffer
	prev uint32
}

func newStream(flags uint8) *streamBuilder {
	s := new(streamBuilder)
	s.Write([]byte{'F', 'L', 'V', 0x01, flags, 0x00, 0x00, 0x00, 0x09})
	return s
}

// tag 追加 PreviousTagSize 和一个完整的标签
func (s *streamBuilder) tag(typeByte uint8, timestamp uint32, payload []byte) *streamBuilder {
	s.u32(s.prev)
	s.WriteByte(typeByte)
	s.u24(uint32(len(payload)))
	s.u24(timestamp & 0xffffff)
	s.WriteByte(uint8(timestamp >> 24))
	s.u24(0)
	s.Write(payload)
	s.prev = uint32(TagHeaderSize + len(payload))
	return s
}

// trailer 追加最后一个 PreviousTagSize
func (s *streamBuilder) trailer() *streamBuilder {
	s.u32(s.prev)
	return s
}

func (s *streamBuilder) u24(v uint32) {
	s.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

func (s *streamBuilder) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.Write(b[:])
}

// amf 拼装AMF0编码的脚本数据
type amf struct {
	bytes.Buffer
}

func (a *amf) str(s string) *amf {
	a.WriteByte(byte(len(s) >> 8))
	a.WriteByte(byte(len(s)))
	a.WriteString(s)
	return a
}

func (a *amf) number(f float64) *amf {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	a.WriteByte(byte(Number))
	a.Write(b[:])
	return a
}

func (a *amf) boolean(v bool) *amf {
	a.WriteByte(byte(Boolean))
	if v {
		a.WriteByte(1)
	} else {
		a.WriteByte(0)
	}
	return a
}

func (a *amf) stringValue(s string) *amf {
	a.WriteByte(byte(String))
	return a.str(s)
}

func (a *amf) marker(t DataType) *amf {
	a.WriteByte(byte(t))
	return a
}

func (a *amf) u32(v uint32) *amf {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	a.Write(b[:])
	return a
}

func (a *amf) objectEnd() *amf {
	a.Write([]byte{0x00, 0x00, byte(ObjectEndMarker)})
	return a
}

// onMetaData 返回 "onMetaData" + ECMA数组头，属性由调用方继续追加
func onMetaData(count uint32) *amf {
	a := new(amf)
	a.marker(String).str("onMetaData")
	a.marker(ECMAArray).u32(count)
	return a
}
