// Package filter implements an RFC 4515 search filter parser, string
// renderer, and a three-valued (RFC 4511 §4.5.1.7) evaluator against
// decoded directory objects.
package filter

// NodeKind discriminates the FilterNode tagged union.
type NodeKind int

const (
	KindPresent NodeKind = iota
	KindEquality
	KindSubstring
	KindGreaterOrEqual
	KindLessOrEqual
	KindApproxMatch
	KindExtensible
	KindAnd
	KindOr
	KindNot
)

// Node is a node in a parsed filter tree. The assertion Value is always
// the raw, unescaped byte literal from the filter string — type coercion
// happens at evaluation time, never at parse time.
type Node struct {
	Kind NodeKind

	Attribute string // Present, Equality, Substring, GreaterOrEqual, LessOrEqual, ApproxMatch, Extensible (may be "")
	Value     []byte // Equality, GreaterOrEqual, LessOrEqual, ApproxMatch, Extensible

	Initial []byte // Substring
	Any     [][]byte
	Final   []byte
	HasInitial bool
	HasFinal   bool

	MatchingRule    string // Extensible, "" if omitted
	DNAttributes    bool   // Extensible :dn flag

	Children []*Node // And, Or
	Child    *Node   // Not
}

// Present builds a Present(attr) node.
func Present(attr string) *Node { return &Node{Kind: KindPresent, Attribute: attr} }

// Equality builds an Equality(attr, value) node.
func Equality(attr string, value []byte) *Node {
	return &Node{Kind: KindEquality, Attribute: attr, Value: value}
}

// Substring builds a Substring node. hasInitial/hasFinal report whether a
// boundary piece is present. Parse sets them only for a non-empty piece,
// so "(cn=*x)" has no initial and a final of "x"; "(cn=*)" parses as
// Present, not as a Substring.
func Substring(attr string, initial []byte, hasInitial bool, any [][]byte, final []byte, hasFinal bool) *Node {
	return &Node{Kind: KindSubstring, Attribute: attr, Initial: initial, HasInitial: hasInitial, Any: any, Final: final, HasFinal: hasFinal}
}

// GreaterOrEqual builds a GreaterOrEqual(attr, value) node.
func GreaterOrEqual(attr string, value []byte) *Node {
	return &Node{Kind: KindGreaterOrEqual, Attribute: attr, Value: value}
}

// LessOrEqual builds a LessOrEqual(attr, value) node.
func LessOrEqual(attr string, value []byte) *Node {
	return &Node{Kind: KindLessOrEqual, Attribute: attr, Value: value}
}

// ApproxMatch builds an ApproxMatch(attr, value) node.
func ApproxMatch(attr string, value []byte) *Node {
	return &Node{Kind: KindApproxMatch, Attribute: attr, Value: value}
}

// Extensible builds an Extensible match node.
func Extensible(attr, matchingRule string, value []byte, dnAttributes bool) *Node {
	return &Node{Kind: KindExtensible, Attribute: attr, MatchingRule: matchingRule, Value: value, DNAttributes: dnAttributes}
}

// And builds an And(children...) node.
func And(children ...*Node) *Node { return &Node{Kind: KindAnd, Children: children} }

// Or builds an Or(children...) node.
func Or(children ...*Node) *Node { return &Node{Kind: KindOr, Children: children} }

// Not builds a Not(child) node.
func Not(child *Node) *Node { return &Node{Kind: KindNot, Child: child} }
