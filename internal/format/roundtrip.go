package format

import (
	"context"
	"errors"
	"fmt"

	"tally/internal/ast"
	"tally/internal/lexer"
	"tally/internal/parser"
	"tally/internal/source"
)

// ErrRoundTrip is returned when the formatted text parses to a different tree.
var ErrRoundTrip = errors.New("format: round-trip changed the program")

// CheckRoundTrip re-parses formatted and compares it with prog. Spans are
// ignored, everything else must match.
func CheckRoundTrip(ctx context.Context, sf *source.File, prog *ast.Program, formatted []byte) error {
	fs := source.NewFileSet()
	fid := fs.AddVirtual(sf.Path, formatted)
	again, err := parseOnce(ctx, fs.Get(fid))
	if err != nil {
		return fmt.Errorf("%w: reparse failed: %w", ErrRoundTrip, err)
	}
	if !ast.Equal(prog, again) {
		return ErrRoundTrip
	}
	return nil
}

func parseOnce(ctx context.Context, sf *source.File) (*ast.Program, error) {
	lx := lexer.New(sf, lexer.Options{})
	return parser.Parse(ctx, parser.FromLexer(lx, false))
}
