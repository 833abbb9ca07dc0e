// Package activedirectory models the decoded, in-memory shape of a single
// directory object and its typed attribute values, independent of how the
// bytes were read off disk.
package activedirectory

import (
	"fmt"
	"time"

	"adxquery/activedirectory/schema"
	"adxquery/orderedmap"
)

// ValueKind discriminates the tagged union Value represents.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindBoolean
	KindGuid
	KindSid
	KindTimestamp
	KindDn
	KindBinary
	KindSecurityDescriptor
	KindUnknown
)

// Value is a decoded attribute value. Exactly one field group is
// meaningful depending on Kind; the tag always matches the attribute's
// declared syntax except for KindUnknown, which is produced when decoding
// fails non-fatally and the raw bytes are preserved.
type Value struct {
	Kind ValueKind

	Str       string    // KindString, KindGuid (canonical text), KindSid (textual), KindDn (resolved)
	Int       int64     // KindInteger
	Bool      bool      // KindBoolean
	Time      time.Time // KindTimestamp
	TimeNever bool      // KindTimestamp: true if the sentinel "never" value
	Raw       []byte    // KindBinary, KindSecurityDescriptor (raw blob), KindUnknown
}

// String renders a Value the way it appears in query output — GUID and SID
// in textual form, timestamps ISO-8601 or "never", unknown/binary as
// lowercase hex. Evaluator comparisons should use the typed fields
// directly rather than this string form where possible.
func (v Value) String() string {
	switch v.Kind {
	case KindString, KindGuid, KindSid, KindDn:
		return v.Str
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindTimestamp:
		if v.TimeNever {
			return "never"
		}
		return v.Time.UTC().Format(time.RFC3339)
	case KindBinary, KindUnknown:
		return hexString(v.Raw)
	case KindSecurityDescriptor:
		return RenderSecurityDescriptor(v.Raw)
	default:
		return ""
	}
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}

// StringValue builds a KindString Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntegerValue builds a KindInteger Value.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// BooleanValue builds a KindBoolean Value.
func BooleanValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// GuidValue builds a KindGuid Value from its canonical textual form.
func GuidValue(canonical string) Value { return Value{Kind: KindGuid, Str: canonical} }

// SidValue builds a KindSid Value from its textual S-... form.
func SidValue(textual string) Value { return Value{Kind: KindSid, Str: textual} }

// TimestampValue builds a KindTimestamp Value.
func TimestampValue(t time.Time, never bool) Value {
	return Value{Kind: KindTimestamp, Time: t, TimeNever: never}
}

// DnValue builds a KindDn Value from an already-resolved DN string.
func DnValue(dn string) Value { return Value{Kind: KindDn, Str: dn} }

// BinaryValue builds a KindBinary Value.
func BinaryValue(b []byte) Value { return Value{Kind: KindBinary, Raw: b} }

// SecurityDescriptorValue builds a KindSecurityDescriptor Value from a raw
// nTSecurityDescriptor blob. Rendering (String/RenderValue) parses it with
// gontsd on demand, falling back to hex when the blob doesn't parse.
func SecurityDescriptorValue(b []byte) Value { return Value{Kind: KindSecurityDescriptor, Raw: b} }

// UnknownValue builds a KindUnknown Value, used when decoding a value
// failed non-fatally and the raw bytes are preserved verbatim.
func UnknownValue(b []byte) Value { return Value{Kind: KindUnknown, Raw: b} }

// Object is one decoded directory entry: its distinguished name and an
// ordered mapping from attribute id to a non-empty sequence of values. An
// attribute absent from Attributes is absent, not present-with-zero-values.
// Object is produced lazily by the snapshot reader and is valid only for
// the duration the consumer holds it — it is not retained across
// iteration steps by the reader itself.
type Object struct {
	DN         string
	Attributes *orderedmap.Map[uint32, []Value]
}

// ValuesByName looks up an attribute's values by LDAP display name,
// resolving the name to an id via the schema (case-insensitive, per
// RFC 4512). Returns ok=false if the attribute is unknown to the schema or
// absent from this object.
func (o *Object) ValuesByName(s *schema.Schema, name string) ([]Value, bool) {
	def, ok := s.AttributeByName(name)
	if !ok {
		return nil, false
	}
	return o.Attributes.Get(def.ID)
}
