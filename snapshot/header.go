// Package snapshot implements the binary ADExplorer snapshot file format:
// header, schema/class/prefix sections, and the lazy object record stream.
package snapshot

import (
	"fmt"

	"adxquery/cursor"
)

// signature is the fixed 8-byte ASCII tag every accepted snapshot file
// must begin with. ADExplorer's on-disk layout is not publicly documented;
// this value and the section layout below are this reader's own fixed
// choice, and files that do not match are rejected rather than guessed at
// read time.
const signature = "ADEXSNAP"

// supportedVersions lists the format versions this reader accepts.
var supportedVersions = map[uint32]bool{1: true}

// Header carries the snapshot's positional metadata: section offsets and
// counts, plus descriptive fields surfaced by dump_header.
type Header struct {
	Version       uint32
	CreatedRaw    []byte // raw 8-byte FILETIME, decoded lazily by callers via valuecodec
	SourceServer  string

	AttributeSectionOffset uint32
	AttributeCount         uint32
	ClassSectionOffset     uint32
	ClassCount             uint32
	PrefixSectionOffset    uint32
	PrefixCount            uint32
	ObjectSectionOffset    uint32
	ObjectCount            uint32

	fileLen int
}

// readHeader parses the fixed-layout header at the start of the cursor.
// The cursor must be positioned at offset 0.
func readHeader(c *cursor.Cursor) (*Header, error) {
	sig, err := c.ReadBytes(len(signature))
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading signature: %w", err)
	}
	if string(sig) != signature {
		return nil, &CorruptSnapshot{Offset: 0, Reason: fmt.Sprintf("bad signature %q", sig)}
	}

	version, err := c.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading version: %w", err)
	}
	if !supportedVersions[version] {
		supported := make([]uint32, 0, len(supportedVersions))
		for v := range supportedVersions {
			supported = append(supported, v)
		}
		return nil, &UnsupportedVersion{Found: version, Supported: supported}
	}

	created, err := c.ReadBytes(8)
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading creation timestamp: %w", err)
	}

	sourceServer, err := c.ReadUnicode()
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading source server DN: %w", err)
	}

	h := &Header{Version: version, CreatedRaw: created, SourceServer: sourceServer}

	fields := []*uint32{
		&h.AttributeSectionOffset, &h.AttributeCount,
		&h.ClassSectionOffset, &h.ClassCount,
		&h.PrefixSectionOffset, &h.PrefixCount,
		&h.ObjectSectionOffset, &h.ObjectCount,
	}
	for _, f := range fields {
		v, err := c.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("snapshot: reading section table: %w", err)
		}
		*f = v
	}

	h.fileLen = c.Len()
	if err := h.validateOffsets(); err != nil {
		return nil, err
	}
	return h, nil
}

// validateOffsets enforces the header invariant: every section offset
// lies within file bounds. Overlap between sections is not checked at
// open time since section lengths are implicit in their record counts,
// not stated separately; readers that walk off the end of a section into
// another section's bytes will surface as CorruptSnapshot during the
// section's own parse.
func (h *Header) validateOffsets() error {
	offsets := map[string]uint32{
		"attribute": h.AttributeSectionOffset,
		"class":     h.ClassSectionOffset,
		"prefix":    h.PrefixSectionOffset,
		"object":    h.ObjectSectionOffset,
	}
	for name, off := range offsets {
		if int(off) > h.fileLen {
			return &CorruptSnapshot{Offset: int(off), Reason: fmt.Sprintf("%s section offset out of bounds", name)}
		}
	}
	return nil
}
