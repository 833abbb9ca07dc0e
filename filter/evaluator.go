package filter

import (
	"strconv"
	"strings"

	ldap "github.com/go-ldap/ldap/v3"

	ad "adxquery/activedirectory"
	"adxquery/activedirectory/schema"
)

// Evaluator evaluates a parsed filter tree against decoded Objects. It
// holds no per-query mutable state and is safe to reuse and share.
type Evaluator struct {
	schema          *schema.Schema
	caseInsensitive bool
}

// NewEvaluator builds an Evaluator bound to a schema. Attribute resolution
// during evaluation always uses case-insensitive name lookup (LDAP
// attribute descriptions are case-insensitive per RFC 4512);
// caseInsensitive instead controls value comparison folding.
func NewEvaluator(s *schema.Schema, caseInsensitive bool) *Evaluator {
	return &Evaluator{schema: s, caseInsensitive: caseInsensitive}
}

// Evaluate runs three-valued evaluation of n against obj.
func (e *Evaluator) Evaluate(n *Node, obj *ad.Object) Result {
	switch n.Kind {
	case KindAnd:
		return e.evalAnd(n.Children, obj)
	case KindOr:
		return e.evalOr(n.Children, obj)
	case KindNot:
		return Not3(e.Evaluate(n.Child, obj))
	case KindPresent:
		return e.evalPresent(n.Attribute, obj)
	case KindEquality, KindApproxMatch:
		return e.evalEquality(n.Attribute, n.Value, obj)
	case KindSubstring:
		return e.evalSubstring(n, obj)
	case KindGreaterOrEqual:
		return e.evalOrdering(n.Attribute, n.Value, obj, true)
	case KindLessOrEqual:
		return e.evalOrdering(n.Attribute, n.Value, obj, false)
	case KindExtensible:
		return e.evalExtensible(n, obj)
	default:
		return Undefined
	}
}

func (e *Evaluator) evalAnd(children []*Node, obj *ad.Object) Result {
	if len(children) == 0 {
		return True // RFC 4526: empty AND matches everything.
	}
	sawUndefined := false
	for _, c := range children {
		switch e.Evaluate(c, obj) {
		case False:
			return False
		case Undefined:
			sawUndefined = true
		}
	}
	if sawUndefined {
		return Undefined
	}
	return True
}

func (e *Evaluator) evalOr(children []*Node, obj *ad.Object) Result {
	if len(children) == 0 {
		return False // RFC 4526: empty OR matches nothing.
	}
	sawUndefined := false
	for _, c := range children {
		switch e.Evaluate(c, obj) {
		case True:
			return True
		case Undefined:
			sawUndefined = true
		}
	}
	if sawUndefined {
		return Undefined
	}
	return False
}

func (e *Evaluator) lookup(obj *ad.Object, attr string) ([]ad.Value, *schema.AttributeDef, bool) {
	def, ok := e.schema.AttributeByName(attr)
	if !ok {
		return nil, nil, false
	}
	vals, present := obj.Attributes.Get(def.ID)
	return vals, def, present
}

func (e *Evaluator) evalPresent(attr string, obj *ad.Object) Result {
	vals, _, present := e.lookup(obj, attr)
	if present && len(vals) > 0 {
		return True
	}
	return False
}

func (e *Evaluator) evalEquality(attr string, assertion []byte, obj *ad.Object) Result {
	vals, def, present := e.lookup(obj, attr)
	if !present || len(vals) == 0 {
		return Undefined
	}
	sawDecodable := false
	for _, v := range vals {
		matched, decodable := e.valueEquals(def, v, assertion)
		if !decodable {
			continue
		}
		sawDecodable = true
		if matched {
			return True
		}
	}
	if !sawDecodable {
		return Undefined // assertion value doesn't decode under any candidate's syntax
	}
	return False
}

// valueEquals dispatches equality comparison by the value's own kind
// (syntax mismatches between filter text and decoded value still resolve
// sensibly since every Value carries its decoded kind regardless of what
// def.Syntax originally declared). ok is false when the assertion text
// cannot be decoded under v's syntax; callers must treat that as
// UNDEFINED, not as a non-match.
func (e *Evaluator) valueEquals(def *schema.AttributeDef, v ad.Value, assertion []byte) (matched, ok bool) {
	switch v.Kind {
	case ad.KindString:
		return e.stringEquals(v.Str, string(assertion)), true
	case ad.KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(string(assertion)), 10, 64)
		if err != nil {
			return false, false
		}
		return v.Int == n, true
	case ad.KindBoolean:
		b, decodable := parseLDAPBool(string(assertion))
		if !decodable {
			return false, false
		}
		return b == v.Bool, true
	case ad.KindGuid, ad.KindSid:
		return v.Str == strings.TrimSpace(string(assertion)), true
	case ad.KindDn:
		return dnEquals(v.Str, string(assertion)), true
	case ad.KindTimestamp:
		return e.stringEquals(v.String(), string(assertion)), true
	default:
		return false, false
	}
}

func (e *Evaluator) stringEquals(a, b string) bool {
	if e.caseInsensitive {
		return strings.EqualFold(asciiFold(a), asciiFold(b))
	}
	return a == b
}

func asciiFold(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func parseLDAPBool(s string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE":
		return true, true
	case "FALSE":
		return false, true
	default:
		return false, false
	}
}

// dnEquals canonicalizes both sides (trim whitespace around commas,
// ASCII-fold attribute type names, leave attribute values untouched) and
// compares via go-ldap's DN equality, which implements exactly that
// RFC 4514 canonicalization.
func dnEquals(a, b string) bool {
	dnA, errA := ldap.ParseDN(a)
	dnB, errB := ldap.ParseDN(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return dnA.Equal(dnB)
}

func (e *Evaluator) evalSubstring(n *Node, obj *ad.Object) Result {
	vals, _, present := e.lookup(obj, n.Attribute)
	if !present || len(vals) == 0 {
		return Undefined
	}
	matchedAny := false
	for _, v := range vals {
		if v.Kind != ad.KindString {
			continue
		}
		matchedAny = true
		if substringMatch(v.Str, n, e.caseInsensitive) {
			return True
		}
	}
	if !matchedAny {
		return Undefined // no string-valued values to test against
	}
	return False
}

func substringMatch(s string, n *Node, caseInsensitive bool) bool {
	fold := func(x string) string {
		if caseInsensitive {
			return asciiFold(x)
		}
		return x
	}
	hay := fold(s)
	if n.HasInitial {
		init := fold(string(n.Initial))
		if !strings.HasPrefix(hay, init) {
			return false
		}
		hay = hay[len(init):]
	}
	if n.HasFinal {
		final := fold(string(n.Final))
		if !strings.HasSuffix(hay, final) {
			return false
		}
		hay = hay[:len(hay)-len(final)]
	}
	for _, a := range n.Any {
		piece := fold(string(a))
		idx := strings.Index(hay, piece)
		if idx < 0 {
			return false
		}
		hay = hay[idx+len(piece):]
	}
	return true
}

func (e *Evaluator) evalOrdering(attr string, assertion []byte, obj *ad.Object, greaterOrEqual bool) Result {
	vals, _, present := e.lookup(obj, attr)
	if !present || len(vals) == 0 {
		return Undefined
	}
	sawComparable := false
	for _, v := range vals {
		cmp, ok := compareValue(v, assertion)
		if !ok {
			continue
		}
		sawComparable = true
		if greaterOrEqual && cmp >= 0 {
			return True
		}
		if !greaterOrEqual && cmp <= 0 {
			return True
		}
	}
	if !sawComparable {
		return Undefined
	}
	return False
}

// compareValue returns sign(v <=> assertion) and ok=false when v's syntax
// cannot be meaningfully ordered against the raw assertion text.
func compareValue(v ad.Value, assertion []byte) (int, bool) {
	switch v.Kind {
	case ad.KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(string(assertion)), 10, 64)
		if err != nil {
			return 0, false
		}
		switch {
		case v.Int < n:
			return -1, true
		case v.Int > n:
			return 1, true
		default:
			return 0, true
		}
	case ad.KindString, ad.KindGuid, ad.KindSid, ad.KindDn:
		return strings.Compare(v.String(), string(assertion)), true
	case ad.KindTimestamp:
		return strings.Compare(v.String(), string(assertion)), true
	default:
		return 0, false
	}
}

func (e *Evaluator) evalExtensible(n *Node, obj *ad.Object) Result {
	if n.MatchingRule != "" {
		return Undefined // unknown matching rule
	}
	if n.Attribute != "" {
		return e.evalEquality(n.Attribute, n.Value, obj)
	}
	// No named attribute: TRUE if any attribute on the object matches.
	sawUndefined := false
	for _, entry := range obj.Attributes.Entries() {
		id, vals := entry.Key, entry.Value
		def, ok := e.schema.AttributeByID(id)
		if !ok || len(vals) == 0 {
			continue
		}
		for _, v := range vals {
			matched, decodable := e.valueEquals(def, v, n.Value)
			if !decodable {
				sawUndefined = true
				continue
			}
			if matched {
				return True
			}
		}
	}
	if sawUndefined {
		return Undefined
	}
	return False
}
