package counter

import (
	"io"
	"sync/atomic"
)

// Counter 返回已经流经的字节数。
type Counter interface {
	Count() int64
}

// CountReader 记录已读出字节数的 io.Reader。
type CountReader interface {
	Counter
	io.Reader
}

// CountWriter 记录已写入字节数的 io.Writer。
type CountWriter interface {
	Counter
	io.Writer
}

type countReader struct {
	r     io.Reader
	total int64
}

// NewCountReader 创建一个新的 CountReader，base 为起始计数。
func NewCountReader(r io.Reader, base int64) CountReader {
	return &countReader{r: r, total: base}
}

// Count 返回当前计数值。
func (r *countReader) Count() int64 {
	return r.total
}

// Read 从底层 Reader 读取数据并累加计数，读取失败时同样累加已读出的部分。
func (r *countReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.total += int64(n)
	return n, err
}

type countWriter struct {
	w     io.Writer
	total int64
}

// NewCountWriter 创建一个新的 CountWriter。
func NewCountWriter(w io.Writer) CountWriter {
	return &countWriter{w: w}
}

// Count 返回当前计数值，可以与 Write 并发调用。
func (w *countWriter) Count() int64 {
	return atomic.LoadInt64(&w.total)
}

// Write 写入底层 Writer 并累加计数。
func (w *countWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	atomic.AddInt64(&w.total, int64(n))
	return n, err
}
