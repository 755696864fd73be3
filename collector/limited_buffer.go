package collector

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// LimitedBuffer keeps the first limit bytes written to it and counts everything written.
// Writes never fail, so it can be the target of io.Copy for arbitrarily large inputs.
type LimitedBuffer struct {
	buf   []byte
	limit int
	total int64
}

func NewLimitedBuffer(limit int) *LimitedBuffer {
	return &LimitedBuffer{limit: max(limit, 0)}
}

func (b *LimitedBuffer) Write(p []byte) (int, error) {
	b.total += int64(len(p))
	if room := b.limit - len(b.buf); room > 0 {
		b.buf = append(b.buf, p[:min(room, len(p))]...)
	}
	return len(p), nil
}

// Truncated reports whether more bytes were written than kept.
func (b *LimitedBuffer) Truncated() bool {
	return b.total > int64(len(b.buf))
}

// Total returns the number of bytes written, including discarded ones.
func (b *LimitedBuffer) Total() int64 {
	return b.total
}

func (b *LimitedBuffer) Len() int {
	return len(b.buf)
}

func (b *LimitedBuffer) String() string {
	return string(b.buf)
}

func (b *LimitedBuffer) Reset() {
	b.buf = b.buf[:0]
	b.total = 0
}

// Preview returns the kept bytes for display. A truncated buffer is cut back to its
// last complete line, or to its last complete character if it holds no line break.
func (b *LimitedBuffer) Preview() string {
	if !b.Truncated() {
		return string(b.buf)
	}
	if i := bytes.LastIndexByte(b.buf, '\n'); i >= 0 {
		return string(b.buf[:i+1])
	}
	end := len(b.buf)
	for end > 0 && !utf8.Valid(b.buf[:end]) && len(b.buf)-end < utf8.UTFMax {
		end--
	}
	return string(b.buf[:end])
}

// ReadLimited reads r until EOF into a LimitedBuffer holding at most limit bytes.
func ReadLimited(r io.Reader, limit int) (*LimitedBuffer, error) {
	b := NewLimitedBuffer(limit)
	if _, err := io.Copy(b, r); err != nil {
		return nil, err
	}
	return b, nil
}
