package activedirectory

import (
	"github.com/f0oster/gontsd"

	"adxquery/activedirectory/valuecodec"
)

// RenderValue renders a decoded Value the way the external query surface
// (ProjectedObject) presents it: GUID and SID in canonical textual form,
// timestamps ISO-8601 UTC or "never", unknown/binary as lowercase hex. SID
// values are additionally annotated with a well-known friendly name when
// one is recognized, entirely offline.
func RenderValue(v Value) string {
	if v.Kind == KindSid {
		if friendly := wellKnownSIDName(v.Str); friendly != "" {
			return v.Str + " (" + friendly + ")"
		}
	}
	return v.String()
}

var wellKnownResolver = gontsd.NewResolver().SIDs

func wellKnownSIDName(textual string) string {
	sid := &gontsd.SID{Value: textual}
	name, err := wellKnownResolver.Resolve(sid)
	if err != nil {
		return ""
	}
	return name
}

// RenderSecurityDescriptor formats a raw nTSecurityDescriptor blob for
// display, using gontsd when it parses and falling back to hex otherwise.
func RenderSecurityDescriptor(raw []byte) string {
	sd, err := valuecodec.DecodeSecurityDescriptor(raw)
	if err != nil {
		return valuecodec.FormatBinaryHex(raw)
	}
	return valuecodec.FormatSecurityDescriptor(sd)
}
