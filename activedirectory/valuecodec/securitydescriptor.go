package valuecodec

import (
	"fmt"
	"strings"

	"github.com/f0oster/gontsd"
)

// DecodeSecurityDescriptor parses a raw nTSecurityDescriptor blob with
// gontsd. Callers fall back to FormatBinaryHex when parsing fails.
func DecodeSecurityDescriptor(b []byte) (*gontsd.SecurityDescriptor, error) {
	return gontsd.Parse(b, gontsd.NewResolver())
}

// FormatSecurityDescriptor renders a parsed security descriptor's owner
// and group SIDs, resolving well-known SIDs to friendly names offline (no
// LDAP lookups — this resolver only knows built-in/well-known SIDs).
func FormatSecurityDescriptor(sd *gontsd.SecurityDescriptor) string {
	if sd == nil {
		return ""
	}
	var parts []string
	if sd.OwnerSID != nil {
		parts = append(parts, "owner="+sd.OwnerSID.Resolved())
	}
	if sd.GroupSID != nil {
		parts = append(parts, "group="+sd.GroupSID.Resolved())
	}
	if sd.DACL != nil {
		parts = append(parts, fmt.Sprintf("aces=%d", len(sd.DACL.ACEs)))
	}
	return strings.Join(parts, " ")
}
