package render

import (
	"fmt"
	"unicode/utf8"
)

// Buffer is a bounded byte buffer. Writes beyond its capacity are discarded.
type Buffer struct {
	buf       []byte
	limit     int
	reserved  int
	truncated bool
}

// NewBuffer returns an empty buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		buf:   make([]byte, 0, capacity),
		limit: capacity,
	}
}

// Write appends p, cutting it at the capacity. It always reports len(p) so
// that fmt helpers keep going; use Truncated to detect the cut.
func (b *Buffer) Write(p []byte) (int, error) {
	b.append(string(p))
	return len(p), nil
}

// WriteString appends s, cutting it at the capacity.
func (b *Buffer) WriteString(s string) (int, error) {
	b.append(s)
	return len(s), nil
}

// WriteAtomic appends s only if all of it fits. It reports whether s was written.
func (b *Buffer) WriteAtomic(s string) bool {
	if len(s) > b.Available() {
		b.truncated = true
		return false
	}
	b.buf = append(b.buf, s...)
	return true
}

// Printf formats into the buffer.
func (b *Buffer) Printf(format string, args ...any) {
	fmt.Fprintf(b, format, args...)
}

func (b *Buffer) append(s string) {
	avail := b.Available()
	if len(s) <= avail {
		b.buf = append(b.buf, s...)
		return
	}
	b.truncated = true
	n := avail
	// Never leave half a UTF-8 sequence at the end.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	b.buf = append(b.buf, s[:n]...)
}

// Available returns the number of bytes that can still be written.
func (b *Buffer) Available() int {
	n := b.limit - b.reserved - len(b.buf)
	if n < 0 {
		return 0
	}
	return n
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the capacity the buffer was created with.
func (b *Buffer) Cap() int { return b.limit }

// Truncated reports whether any write was cut short.
func (b *Buffer) Truncated() bool { return b.truncated }

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns the buffer contents.
func (b *Buffer) String() string { return string(b.buf) }

// Reset empties the buffer and clears the truncation flag and any reservation.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.reserved = 0
	b.truncated = false
}

// reserve holds back n bytes from ordinary writes.
func (b *Buffer) reserve(n int) {
	b.reserved += n
	if over := len(b.buf) + b.reserved - b.limit; over > 0 {
		b.reserved -= over
	}
}

// release makes reserved space writable again.
func (b *Buffer) release() {
	b.reserved = 0
}

// Truncate returns s cut to at most n bytes on a rune boundary.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
