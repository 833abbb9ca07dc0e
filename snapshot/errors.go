package snapshot

import "fmt"

// CorruptSnapshot reports a structural violation in the binary layout: bad
// magic, an out-of-bounds offset, or a truncated record. Fatal — aborts
// the current open or iteration.
type CorruptSnapshot struct {
	Offset int
	Reason string
}

func (e *CorruptSnapshot) Error() string {
	return fmt.Sprintf("corrupt snapshot at offset %d: %s", e.Offset, e.Reason)
}

// UnsupportedVersion reports a format version this reader does not know
// how to parse. Fatal at open time.
type UnsupportedVersion struct {
	Found     uint32
	Supported []uint32
}

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d (supported: %v)", e.Found, e.Supported)
}

// DecodeWarning reports a non-fatal per-value decoding failure. The
// affected value is demoted to Unknown(bytes) and a counter increments;
// this type exists so the reason can still be logged.
type DecodeWarning struct {
	Attribute string
	Reason    string
}

func (e *DecodeWarning) Error() string {
	return fmt.Sprintf("decode warning for attribute %q: %s", e.Attribute, e.Reason)
}
