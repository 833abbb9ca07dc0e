package activedirectory_test

import (
	"testing"
	"time"

	ad "adxquery/activedirectory"
	"adxquery/activedirectory/schema"
	"adxquery/orderedmap"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    ad.Value
		want string
	}{
		{"string", ad.StringValue("hello"), "hello"},
		{"integer", ad.IntegerValue(42), "42"},
		{"boolean true", ad.BooleanValue(true), "TRUE"},
		{"boolean false", ad.BooleanValue(false), "FALSE"},
		{"binary", ad.BinaryValue([]byte{0xde, 0xad}), "dead"},
		{"never timestamp", ad.TimestampValue(time.Time{}, true), "never"},
	}
	for _, tc := range tests {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("%s: String() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestObject_ValuesByName(t *testing.T) {
	s := schema.NewSchema([]*schema.AttributeDef{
		{ID: 1, Name: "mail", Syntax: schema.SyntaxString},
	}, nil, nil)

	attrs := orderedmap.New[uint32, []ad.Value]()
	attrs.Set(1, []ad.Value{ad.StringValue("alice@example.com")})
	obj := &ad.Object{DN: "CN=Alice", Attributes: attrs}

	vals, ok := obj.ValuesByName(s, "MAIL")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find mail")
	}
	if len(vals) != 1 || vals[0].Str != "alice@example.com" {
		t.Errorf("got %v", vals)
	}

	if _, ok := obj.ValuesByName(s, "unknownAttr"); ok {
		t.Error("expected lookup of unknown attribute to fail")
	}
}
