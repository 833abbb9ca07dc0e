package filter

import "strings"

// Render reconstructs an RFC 4515 filter string from a Node tree. It is
// the inverse of Parse, used both by the round-trip test property and by
// any collaborator that wants to echo a normalized filter back.
func Render(n *Node) string {
	var b strings.Builder
	renderInto(&b, n)
	return b.String()
}

func renderInto(b *strings.Builder, n *Node) {
	b.WriteByte('(')
	switch n.Kind {
	case KindAnd:
		b.WriteByte('&')
		for _, c := range n.Children {
			renderInto(b, c)
		}
	case KindOr:
		b.WriteByte('|')
		for _, c := range n.Children {
			renderInto(b, c)
		}
	case KindNot:
		b.WriteByte('!')
		renderInto(b, n.Child)
	case KindPresent:
		b.WriteString(n.Attribute)
		b.WriteString("=*")
	case KindEquality:
		b.WriteString(n.Attribute)
		b.WriteByte('=')
		b.WriteString(escapeAssertion(n.Value))
	case KindApproxMatch:
		b.WriteString(n.Attribute)
		b.WriteString("~=")
		b.WriteString(escapeAssertion(n.Value))
	case KindGreaterOrEqual:
		b.WriteString(n.Attribute)
		b.WriteString(">=")
		b.WriteString(escapeAssertion(n.Value))
	case KindLessOrEqual:
		b.WriteString(n.Attribute)
		b.WriteString("<=")
		b.WriteString(escapeAssertion(n.Value))
	case KindSubstring:
		b.WriteString(n.Attribute)
		b.WriteByte('=')
		if n.HasInitial {
			b.WriteString(escapeAssertion(n.Initial))
		}
		b.WriteByte('*')
		for _, a := range n.Any {
			b.WriteString(escapeAssertion(a))
			b.WriteByte('*')
		}
		if n.HasFinal {
			b.WriteString(escapeAssertion(n.Final))
		}
	case KindExtensible:
		b.WriteString(n.Attribute)
		if n.DNAttributes {
			b.WriteString(":dn")
		}
		if n.MatchingRule != "" {
			b.WriteByte(':')
			b.WriteString(n.MatchingRule)
		}
		b.WriteString(":=")
		b.WriteString(escapeAssertion(n.Value))
	}
	b.WriteByte(')')
}

func escapeAssertion(v []byte) string {
	var b strings.Builder
	for _, c := range v {
		switch c {
		case '(', ')', '*', '\\':
			b.WriteByte('\\')
			b.WriteString(hexByte(c))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hexByte(c byte) string {
	const hexdigits = "0123456789abcdef"
	return string([]byte{hexdigits[c>>4], hexdigits[c&0x0f]})
}
