package flv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/yuhaohwang/flv-inspector/src/pkg/counter"
)

// Cursor 按大端序顺序读取输入流中的定长字段，不支持回退和随机访问。
type Cursor struct {
	buf *bufio.Reader
	cr  counter.CountReader
	end int64 // 窗口游标的结束偏移，-1 表示不限

	failedAt int64 // 最近一次失败读取的起始偏移，-1 表示没有失败
}

// NewCursor 创建一个从 r 开始读取的游标。
func NewCursor(r io.Reader) *Cursor {
	buf, ok := r.(*bufio.Reader)
	if !ok {
		buf = bufio.NewReader(r)
	}
	return &Cursor{buf: buf, cr: counter.NewCountReader(buf, 0), end: -1, failedAt: -1}
}

// Offset 返回已经消费的字节数，即下一次读取的起始偏移。
func (c *Cursor) Offset() int64 {
	return c.cr.Count()
}

// Remaining 返回窗口游标中尚未读取的字节数，普通游标返回 -1。
func (c *Cursor) Remaining() int64 {
	if c.end < 0 {
		return -1
	}
	return c.end - c.Offset()
}

// errOffset 返回出错字段的起始偏移：读取失败时为该次读取的起始偏移，否则为当前偏移。
func (c *Cursor) errOffset() int64 {
	if c.failedAt >= 0 {
		return c.failedAt
	}
	return c.Offset()
}

// AtCleanBoundary 判断输入是否恰好在此处结束。
func (c *Cursor) AtCleanBoundary() bool {
	_, err := c.buf.Peek(1)
	return err == io.EOF
}

// readFull 要么读满 p，要么返回 ErrTruncatedInput。
func (c *Cursor) readFull(p []byte) error {
	start := c.Offset()
	if _, err := io.ReadFull(c.cr, p); err != nil {
		c.failedAt = start
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncatedInput
		}
		return err
	}
	return nil
}

// ReadU8 读取 1 字节。
func (c *Cursor) ReadU8() (uint8, error) {
	var b [1]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16BE 读取 2 字节大端整数。
func (c *Cursor) ReadU16BE() (uint16, error) {
	var b [2]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// ReadU24BE 读取 3 字节大端整数，结果的最高字节恒为 0。
func (c *Cursor) ReadU24BE() (uint32, error) {
	var b [3]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadU32BE 读取 4 字节大端整数。
func (c *Cursor) ReadU32BE() (uint32, error) {
	var b [4]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// ReadF64BE 读取 8 字节大端 IEEE-754 双精度浮点数。
func (c *Cursor) ReadF64BE() (float64, error) {
	var b [8]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b[:])), nil
}

// ReadBytes 读取 n 字节。n 为 0 时返回空切片。
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrUnderflowInLength
	}
	start := c.Offset()
	if c.end >= 0 && int64(n) > c.Remaining() {
		c.failedAt = start
		return nil, ErrTruncatedInput
	}
	// 按块读取，避免残缺流上的超大声明长度一次性分配
	buf := bytes.NewBuffer(make([]byte, 0, minInt(n, 64*1024)))
	if _, err := io.CopyN(buf, c.cr, int64(n)); err != nil {
		c.failedAt = start
		if errors.Is(err, io.EOF) {
			return nil, ErrTruncatedInput
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// Discard 跳过 n 字节。
func (c *Cursor) Discard(n int64) error {
	start := c.Offset()
	if _, err := io.CopyN(io.Discard, c.cr, n); err != nil {
		c.failedAt = start
		if errors.Is(err, io.EOF) {
			return ErrTruncatedInput
		}
		return err
	}
	return nil
}

// Window 读出接下来的 n 字节，返回只覆盖这 n 字节的子游标，偏移与父游标保持一致。
func (c *Cursor) Window(n uint32) (*Cursor, error) {
	base := c.Offset()
	b, err := c.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	buf := bufio.NewReader(bytes.NewReader(b))
	return &Cursor{
		buf:      buf,
		cr:       counter.NewCountReader(buf, base),
		end:      base + int64(n),
		failedAt: -1,
	}, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
