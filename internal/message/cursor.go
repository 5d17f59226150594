package message

import (
	"bytes"

	"github.com/quic-go/quic-go/quicvarint"
)

// Cursor is an advancing reader over a growable byte buffer, the "Buffer
// cursor" collaborator of the wire codec. Every read method is total: on
// insufficient bytes it returns ErrUnderflow and leaves the cursor's
// position untouched, so a codec driver can hold the same buffer, append
// more bytes as they arrive, and retry the identical read.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor wraps buf for reading from the start.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Grow appends more bytes to the buffer, as the codec driver receives them
// off the transport.
func (c *Cursor) Grow(b []byte) {
	c.buf = append(c.buf, b...)
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.off
}

// Mark returns the current offset, to be passed to Reset if a composite
// read fails partway through.
func (c *Cursor) Mark() int {
	return c.off
}

// Reset rewinds the cursor to a previously taken Mark.
func (c *Cursor) Reset(mark int) {
	c.off = mark
}

// Compact discards already-read bytes, keeping the buffer from growing
// without bound across many small reads.
func (c *Cursor) Compact() {
	if c.off == 0 {
		return
	}
	c.buf = append(c.buf[:0], c.buf[c.off:]...)
	c.off = 0
}

// ReadVarint reads a QUIC variable-length integer via quicvarint, the
// external varint codec primitive. It consumes bytes only on success.
func (c *Cursor) ReadVarint() (uint64, error) {
	r := bytes.NewReader(c.buf[c.off:])
	before := r.Len()
	v, err := quicvarint.Read(r)
	if err != nil {
		return 0, ErrUnderflow
	}
	c.off += before - r.Len()
	return v, nil
}

// ReadUint8 reads a single raw byte (priority, groupOrder, contentExists,
// and similar 8-bit fields are never varint-encoded).
func (c *Cursor) ReadUint8() (byte, error) {
	if c.Len() < 1 {
		return 0, ErrUnderflow
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// ReadBytes reads exactly n raw bytes.
func (c *Cursor) ReadBytes(n uint64) ([]byte, error) {
	if uint64(c.Len()) < n {
		return nil, ErrUnderflow
	}
	b := c.buf[c.off : c.off+int(n)]
	c.off += int(n)
	return b, nil
}

// ReadString reads a varint-prefixed-length UTF-8 byte sequence. The read is
// atomic: if the length prefix parses but the payload bytes are not yet
// available, the cursor rewinds past the length prefix too.
func (c *Cursor) ReadString() (string, error) {
	mark := c.Mark()
	n, err := c.ReadVarint()
	if err != nil {
		return "", err
	}
	b, err := c.ReadBytes(n)
	if err != nil {
		c.Reset(mark)
		return "", err
	}
	return string(b), nil
}

// AppendVarint appends v to b in minimal-length QUIC varint form.
func AppendVarint(b []byte, v uint64) []byte {
	return quicvarint.Append(b, v)
}

// AppendUint8 appends a single raw byte.
func AppendUint8(b []byte, v byte) []byte {
	return append(b, v)
}

// AppendString appends a varint-length-prefixed string.
func AppendString(b []byte, s string) []byte {
	b = AppendVarint(b, uint64(len(s)))
	return append(b, s...)
}
