package cursor_test

import (
	"testing"

	"adxquery/cursor"
)

func TestCursor_FixedWidthReads(t *testing.T) {
	buf := []byte{
		0x2a,                   // u8
		0x34, 0x12,             // u16 = 0x1234
		0x78, 0x56, 0x34, 0x12, // u32 = 0x12345678
	}
	c := cursor.New(buf)

	u8, err := c.ReadU8()
	if err != nil || u8 != 0x2a {
		t.Fatalf("ReadU8 = %x, %v", u8, err)
	}
	u16, err := c.ReadU16()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("ReadU16 = %x, %v", u16, err)
	}
	u32, err := c.ReadU32()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("ReadU32 = %x, %v", u32, err)
	}
	if c.Position() != len(buf) {
		t.Errorf("Position = %d, want %d", c.Position(), len(buf))
	}
}

func TestCursor_Truncated(t *testing.T) {
	c := cursor.New([]byte{0x01})
	if _, err := c.ReadU32(); err != cursor.Truncated {
		t.Errorf("ReadU32 on short buffer = %v, want Truncated", err)
	}
}

func TestCursor_ReadCStr(t *testing.T) {
	c := cursor.New([]byte{'h', 'i', 0, 'x'})
	s, err := c.ReadCStr()
	if err != nil {
		t.Fatalf("ReadCStr: %v", err)
	}
	if s != "hi" {
		t.Errorf("ReadCStr = %q, want %q", s, "hi")
	}
	if c.Position() != 3 {
		t.Errorf("Position = %d, want 3", c.Position())
	}
}

func TestCursor_ReadUnicode(t *testing.T) {
	// count=2, then "AD" in UTF-16LE.
	buf := []byte{2, 0, 0, 0, 'A', 0, 'D', 0}
	c := cursor.New(buf)
	s, err := c.ReadUnicode()
	if err != nil {
		t.Fatalf("ReadUnicode: %v", err)
	}
	if s != "AD" {
		t.Errorf("ReadUnicode = %q, want %q", s, "AD")
	}
}

func TestCursor_SeekAndSkip(t *testing.T) {
	c := cursor.New([]byte{1, 2, 3, 4, 5})
	if err := c.Seek(3); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if c.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", c.Remaining())
	}
	if err := c.Skip(1); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	b, err := c.ReadU8()
	if err != nil || b != 5 {
		t.Fatalf("ReadU8 after skip = %v, %v", b, err)
	}

	if err := c.Seek(100); err == nil {
		t.Error("expected out-of-bounds seek to error")
	}
}
