package types

import "testing"

func TestTypeNames(t *testing.T) {
	cases := map[Type]string{
		Invalid: "Invalid",
		Integer: "Integer",
		String:  "String",
		Boolean: "Boolean",
		Type(9): "Type(9)",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("%d: got %q, want %q", typ, got, want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, typ := range []Type{Integer, String, Boolean} {
		got, ok := Parse(typ.String())
		if !ok || got != typ {
			t.Fatalf("Parse(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if _, ok := Parse("Invalid"); ok {
		t.Fatal("Invalid must not parse")
	}
}

func TestTextMarshaling(t *testing.T) {
	b, err := String.MarshalText()
	if err != nil || string(b) != "String" {
		t.Fatalf("MarshalText: %q, %v", b, err)
	}
	if _, err := Invalid.MarshalText(); err == nil {
		t.Fatal("expected error for Invalid")
	}
	var typ Type
	if err := typ.UnmarshalText([]byte("Boolean")); err != nil || typ != Boolean {
		t.Fatalf("UnmarshalText: %v, %v", typ, err)
	}
	if err := typ.UnmarshalText([]byte("Float")); err == nil {
		t.Fatal("expected error for unknown name")
	}
}
