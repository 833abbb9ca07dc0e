// Package valuecodec implements the pure, stateless decoders that turn raw
// attribute value bytes from a snapshot into semantic Go values: GUIDs,
// SIDs, Windows FILETIME timestamps, UTF-16LE strings, integers, and
// booleans.
package valuecodec

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// filetimeEpochOffset is the number of 100ns intervals between the
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochOffset = 116444736000000000

// filetimeNever is the sentinel FILETIME value AD uses to mean "this
// attribute never expires" — the maximum representable signed value.
const filetimeNever = int64(0x7FFFFFFFFFFFFFFF)

// DecodeGUID parses the AD mixed-endian 16-byte GUID layout: the first
// three fields are little-endian within the input, the last two are
// big-endian, matching the Windows textual GUID convention.
func DecodeGUID(b []byte) (uuid.UUID, error) {
	if len(b) != 16 {
		return uuid.UUID{}, fmt.Errorf("valuecodec: GUID requires 16 bytes, got %d", len(b))
	}
	var swapped [16]byte
	// Data1 (4 bytes, little-endian -> big-endian for canonical form)
	swapped[0], swapped[1], swapped[2], swapped[3] = b[3], b[2], b[1], b[0]
	// Data2 (2 bytes)
	swapped[4], swapped[5] = b[5], b[4]
	// Data3 (2 bytes)
	swapped[6], swapped[7] = b[7], b[6]
	// Data4 (8 bytes, already big-endian / byte-for-byte)
	copy(swapped[8:], b[8:16])
	return uuid.FromBytes(swapped[:])
}

// FormatGUID renders a decoded GUID in canonical
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
func FormatGUID(id uuid.UUID) string {
	return id.String()
}

// DecodeSID parses the Windows binary SID layout: revision byte,
// sub-authority count byte, 6-byte big-endian identifier authority, then N
// little-endian 4-byte sub-authorities. It returns the textual
// S-<rev>-<authority>-<sub1>-...-<subN> form directly since that textual
// form is the only representation callers need.
func DecodeSID(b []byte) (string, error) {
	if len(b) < 8 {
		return "", fmt.Errorf("valuecodec: SID requires at least 8 bytes, got %d", len(b))
	}
	revision := b[0]
	subAuthCount := int(b[1])
	authority := uint64(b[2])<<40 | uint64(b[3])<<32 | uint64(b[4])<<24 |
		uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	want := 8 + subAuthCount*4
	if len(b) < want {
		return "", fmt.Errorf("valuecodec: SID declares %d sub-authorities but only %d bytes available", subAuthCount, len(b)-8)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "S-%d-%d", revision, authority)
	for i := 0; i < subAuthCount; i++ {
		off := 8 + i*4
		sub := binary.LittleEndian.Uint32(b[off : off+4])
		fmt.Fprintf(&sb, "-%d", sub)
	}
	return sb.String(), nil
}

// DecodeFILETIME interprets 8 little-endian bytes as a Windows FILETIME: a
// count of 100ns intervals since 1601-01-01 UTC. The sentinel values 0 and
// the maximum int64 are reported via never=true so callers can render
// "never" instead of a bogus instant.
func DecodeFILETIME(b []byte) (t time.Time, never bool, err error) {
	if len(b) != 8 {
		return time.Time{}, false, fmt.Errorf("valuecodec: FILETIME requires 8 bytes, got %d", len(b))
	}
	raw := int64(binary.LittleEndian.Uint64(b))
	if raw == 0 || raw == filetimeNever {
		return time.Time{}, true, nil
	}
	unitsSinceUnixEpoch := raw - filetimeEpochOffset
	seconds := unitsSinceUnixEpoch / 10_000_000
	remainder100ns := unitsSinceUnixEpoch % 10_000_000
	return time.Unix(seconds, remainder100ns*100).UTC(), false, nil
}

// FormatTimestamp renders a decoded FILETIME for display: "never" for the
// sentinel, otherwise ISO-8601 UTC.
func FormatTimestamp(t time.Time, never bool) string {
	if never {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// DecodeUTF16 decodes a raw UTF-16LE byte span (already stripped of its
// length prefix by the caller) into a Go string, substituting U+FFFD for
// invalid surrogate pairs rather than failing.
func DecodeUTF16(b []byte) (string, error) {
	decoded, _, err := transform.Bytes(utf16leDecoder, b)
	if err != nil {
		return string(decoded), nil
	}
	return string(decoded), nil
}

// DecodeInteger interprets 8 little-endian bytes as a signed 64-bit
// integer. Narrower fixed-width fields (4-byte counters, etc.) are
// sign-extended by the caller before reaching here if needed; snapshot
// integer attributes are stored 8 bytes wide.
func DecodeInteger(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("valuecodec: integer requires 8 bytes, got %d", len(b))
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// DecodeBoolean interprets a single byte as a boolean: zero is false,
// anything else is true.
func DecodeBoolean(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, fmt.Errorf("valuecodec: boolean requires 1 byte, got %d", len(b))
	}
	return b[0] != 0, nil
}

// FormatBinaryHex renders raw bytes as lowercase hex, the fallback
// rendering for unknown or undecodable binary values.
func FormatBinaryHex(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
