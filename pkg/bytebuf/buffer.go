package bytebuf

import (
	"errors"
	"fmt"
	"io"
)

// MinCapacity is the smallest capacity a growing buffer allocates.
const MinCapacity = 64

// ErrUnderflow is returned when fewer bytes remain than were requested.
var ErrUnderflow = errors.New("bytebuf: underflow")

// Buffer is a growable byte sequence with a read cursor.
//
// Bytes in [0, r) have been consumed, [r, len(data)) are readable.
type Buffer struct {
	data []byte
	r    int
}

// New creates an empty buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Wrap creates a buffer positioned at the start of p.
// The buffer takes ownership of p.
func Wrap(p []byte) *Buffer {
	return &Buffer{data: p}
}

// Append writes p at the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.grow(len(p))
	b.data = append(b.data, p...)
}

// AppendByte writes a single byte at the end of the buffer.
func (b *Buffer) AppendByte(c byte) {
	b.grow(1)
	b.data = append(b.data, c)
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// ReadNext returns the next n bytes and advances the cursor.
// If fewer than n bytes remain the cursor is left untouched.
func (b *Buffer) ReadNext(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bytebuf: negative read length %d", n)
	}
	if b.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnderflow, n, b.Remaining())
	}
	p := b.data[b.r : b.r+n : b.r+n]
	b.r += n
	return p, nil
}

// ReadByte implements io.ByteReader.
func (b *Buffer) ReadByte() (byte, error) {
	if b.Remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte, have 0", ErrUnderflow)
	}
	c := b.data[b.r]
	b.r++
	return c, nil
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.r
}

// Len returns the number of bytes written, read or not.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the capacity of the backing array.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Mark returns the current cursor position.
func (b *Buffer) Mark() int {
	return b.r
}

// Rewind moves the cursor back to a position returned by Mark.
func (b *Buffer) Rewind(mark int) {
	if mark < 0 || mark > len(b.data) {
		panic(fmt.Sprintf("bytebuf: rewind to %d out of range [0,%d]", mark, len(b.data)))
	}
	b.r = mark
}

// Compact discards consumed bytes and moves the unread ones to the front.
// Capacity is kept. Marks taken before Compact are invalid afterwards.
func (b *Buffer) Compact() {
	if b.r == 0 {
		return
	}
	n := copy(b.data, b.data[b.r:])
	b.data = b.data[:n]
	b.r = 0
}

// Reset empties the buffer, keeping capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.r = 0
}

// Bytes returns a copy of the unread bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.Remaining())
	copy(out, b.data[b.r:])
	return out
}

// WriteTo implements io.WriterTo, draining the unread bytes into w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	rem := b.Remaining()
	if rem == 0 {
		return 0, nil
	}
	n, err := w.Write(b.data[b.r:])
	b.r += n
	if err == nil && n < rem {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// grow makes room for n more bytes, doubling capacity as needed.
func (b *Buffer) grow(n int) {
	need := len(b.data) + n
	if need <= cap(b.data) {
		return
	}
	newCap := cap(b.data) * 2
	if newCap < MinCapacity {
		newCap = MinCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	data := make([]byte, len(b.data), newCap)
	copy(data, b.data)
	b.data = data
}
