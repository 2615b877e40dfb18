package fuzztests

import (
	"context"
	"testing"
	"time"

	"tally/internal/ast"
	"tally/internal/lexer"
	"tally/internal/parser"
	"tally/internal/sema"
	"tally/internal/source"
	"tally/internal/testkit"
	"tally/internal/token"
)

// parseTimeout is the maximum time allowed for a single input.
// If checking takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseInput(ctx context.Context, input []byte) (*source.File, *ast.Program, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.tl", input))
	toks, err := lexer.TokenizeContext(ctx, file, lexer.Options{})
	if err != nil {
		return file, nil, err
	}
	filtered := toks[:0:0]
	for _, tok := range toks {
		if tok.Kind != token.Whitespace && tok.Kind != token.Comment {
			filtered = append(filtered, tok)
		}
	}
	prog, err := parser.Parse(ctx, parser.FromSlice(filtered))
	return file, prog, err
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		file, prog, err := parseInput(context.Background(), input)
		if err != nil {
			return
		}
		if err := testkit.CheckSpanInvariants(prog, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang tests that the front end doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("let a = 1\nlet b = 2;"))  // missing semicolon
	f.Add([]byte("let a = ((((1 + 2;"))     // unclosed parens
	f.Add([]byte("let let let = = ;"))      // keyword soup
	f.Add([]byte("----------------------1;")) // long unary chain

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, prog, err := parseInput(ctx, input)
			if err == nil {
				_, _ = sema.Check(ctx, prog)
			}
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("hang detected: checking took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzSemaDeterministic checks that two runs over the same program agree.
func FuzzSemaDeterministic(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		_, prog, err := parseInput(context.Background(), input)
		if err != nil {
			return
		}
		env1, err1 := sema.Check(context.Background(), prog)
		env2, err2 := sema.Check(context.Background(), prog)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("errors differ: %v vs %v", err1, err2)
		}
		if err1 != nil {
			if err1.Error() != err2.Error() {
				t.Fatalf("errors differ: %v vs %v", err1, err2)
			}
			return
		}
		n1, n2 := env1.Names(), env2.Names()
		if len(n1) != len(n2) {
			t.Fatalf("bindings differ: %v vs %v", n1, n2)
		}
		for i := range n1 {
			if n1[i] != n2[i] {
				t.Fatalf("bindings differ: %v vs %v", n1, n2)
			}
		}
		for _, stmt := range prog.Nodes {
			if let, ok := stmt.(*ast.Let); ok {
				if _, ok := env1.Lookup(let.Name); !ok {
					t.Fatalf("binding %s missing", let.Name)
				}
			}
		}
	})
}
