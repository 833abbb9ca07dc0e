package filter_test

import (
	"reflect"
	"testing"

	"adxquery/filter"
)

func TestParse_Present(t *testing.T) {
	n, err := filter.Parse("(mail=*)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Kind != filter.KindPresent || n.Attribute != "mail" {
		t.Errorf("got %+v, want Present(mail)", n)
	}
}

func TestParse_Equality(t *testing.T) {
	n, err := filter.Parse("(cn=Alice)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Kind != filter.KindEquality || string(n.Value) != "Alice" {
		t.Errorf("got %+v, want Equality(cn, Alice)", n)
	}
}

func TestParse_EscapedAssertion(t *testing.T) {
	n, err := filter.Parse(`(cn=Alice \28Admin\29)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(n.Value) != "Alice (Admin)" {
		t.Errorf("got %q, want %q", n.Value, "Alice (Admin)")
	}
}

func TestParse_Substring(t *testing.T) {
	tests := []struct {
		input       string
		wantInitial string
		hasInitial  bool
		wantAny     []string
		wantFinal   string
		hasFinal    bool
	}{
		{"(sn=Sm*)", "Sm", true, nil, "", false},
		{"(sn=*th)", "", false, nil, "th", true},
		{"(sn=*mi*)", "", false, []string{"mi"}, "", false},
		{"(sn=Sm*i*th)", "Sm", true, []string{"i"}, "th", true},
	}
	for _, tc := range tests {
		n, err := filter.Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if n.Kind != filter.KindSubstring {
			t.Fatalf("Parse(%q) kind = %v, want Substring", tc.input, n.Kind)
		}
		if n.HasInitial != tc.hasInitial || string(n.Initial) != tc.wantInitial {
			t.Errorf("Parse(%q) initial = (%q,%v), want (%q,%v)", tc.input, n.Initial, n.HasInitial, tc.wantInitial, tc.hasInitial)
		}
		if n.HasFinal != tc.hasFinal || string(n.Final) != tc.wantFinal {
			t.Errorf("Parse(%q) final = (%q,%v), want (%q,%v)", tc.input, n.Final, n.HasFinal, tc.wantFinal, tc.hasFinal)
		}
		gotAny := make([]string, len(n.Any))
		for i, a := range n.Any {
			gotAny[i] = string(a)
		}
		if !reflect.DeepEqual(gotAny, tc.wantAny) && !(len(gotAny) == 0 && len(tc.wantAny) == 0) {
			t.Errorf("Parse(%q) any = %v, want %v", tc.input, gotAny, tc.wantAny)
		}
	}
}

func TestParse_EmptyAndOr(t *testing.T) {
	and, err := filter.Parse("(&)")
	if err != nil {
		t.Fatalf("Parse(&): %v", err)
	}
	if and.Kind != filter.KindAnd || len(and.Children) != 0 {
		t.Errorf("Parse(&) = %+v, want empty And", and)
	}

	or, err := filter.Parse("(|)")
	if err != nil {
		t.Fatalf("Parse(|): %v", err)
	}
	if or.Kind != filter.KindOr || len(or.Children) != 0 {
		t.Errorf("Parse(|) = %+v, want empty Or", or)
	}
}

func TestParse_AndOrNot(t *testing.T) {
	n, err := filter.Parse("(&(objectClass=user)(!(company=AcmeCorp)))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Kind != filter.KindAnd || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
	if n.Children[1].Kind != filter.KindNot {
		t.Errorf("second child kind = %v, want Not", n.Children[1].Kind)
	}
}

func TestParse_Extensible(t *testing.T) {
	n, err := filter.Parse("(cn:caseExactMatch:=Alice)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Kind != filter.KindExtensible || n.Attribute != "cn" || n.MatchingRule != "caseExactMatch" {
		t.Errorf("got %+v", n)
	}
}

func TestParse_UnbalancedParen(t *testing.T) {
	_, err := filter.Parse("(&(objectClass=user)")
	if err == nil {
		t.Fatal("expected ParseError for unbalanced filter")
	}
	var pe *filter.ParseError
	if perr, ok := err.(*filter.ParseError); ok {
		pe = perr
	} else {
		t.Fatalf("error is %T, want *filter.ParseError", err)
	}
	if pe.Position != len("(&(objectClass=user)") {
		t.Errorf("ParseError.Position = %d, want end-of-input position %d", pe.Position, len("(&(objectClass=user)"))
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	corpus := []string{
		"(objectClass=user)",
		"(mail=*)",
		"(&(objectClass=user)(company=1234)(streetAddress=HQ-*))",
		"(|(mail=*)(sAMAccountName=A*))",
		"(!(company=AcmeCorp))",
		"(sn=Sm*i*th)",
		"(cn:caseExactMatch:=Alice)",
		"(&)",
		"(|)",
		`(cn=Alice \28Admin\29)`,
	}
	for _, s := range corpus {
		first, err := filter.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		rendered := filter.Render(first)
		second, err := filter.Parse(rendered)
		if err != nil {
			t.Fatalf("Parse(render(Parse(%q))) = %q: %v", s, rendered, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("round trip mismatch for %q: first=%+v second=%+v (rendered=%q)", s, first, second, rendered)
		}
	}
}
