package source

import "fmt"

// Position is a zero-based line/column pair counted in characters (runes).
// It is rendered 1-based.
type Position struct {
	Line   uint32
	Column uint32
}

// Advance moves the position past r: a newline starts the next line,
// anything else moves one column to the right.
func (p Position) Advance(r rune) Position {
	if r == '\n' {
		return Position{Line: p.Line + 1, Column: 0}
	}
	return Position{Line: p.Line, Column: p.Column + 1}
}

// Before reports whether p is strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// LineCol converts the position into the 1-based form used by diagnostics.
func (p Position) LineCol() LineCol {
	return LineCol{Line: p.Line + 1, Col: p.Column + 1}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}
