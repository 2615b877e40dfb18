package types

import "fmt"

// Type is the static type of an expression or binding.
type Type uint8

const (
	Invalid Type = iota
	Integer
	String
	Boolean
)

var typeNames = [...]string{
	Invalid: "Invalid",
	Integer: "Integer",
	String:  "String",
	Boolean: "Boolean",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Valid reports whether t is one of the known non-invalid types.
func (t Type) Valid() bool {
	return t > Invalid && int(t) < len(typeNames)
}

// Parse returns the type with the given name.
func Parse(name string) (Type, bool) {
	for i, n := range typeNames {
		if i != int(Invalid) && n == name {
			return Type(i), true
		}
	}
	return Invalid, false
}

// MarshalText renders the type by name, so JSON output reads "Integer"
// rather than a number.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("types: cannot marshal %s", t)
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("types: unknown type %q", b)
	}
	*t = parsed
	return nil
}
