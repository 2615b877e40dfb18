package fuzztests

import (
	"context"
	"testing"

	"tally/internal/diag"
	"tally/internal/lexer"
	"tally/internal/source"
	"tally/internal/testkit"
	"tally/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.tl", input))

		bag := diag.NewBag(64)
		toks, err := lexer.TokenizeContext(context.Background(), file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if invErr := testkit.CheckTokenInvariants(toks, file); invErr != nil {
			t.Fatalf("token invariants: %v\ninput: %q", invErr, truncateForLog(input, 200))
		}
		if err != nil {
			return
		}
		if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
			t.Fatalf("stream does not end with EOF: %q", truncateForLog(input, 200))
		}
		// без ошибки лексер покрывает весь файл без дыр
		var covered uint32
		for _, tok := range toks[:len(toks)-1] {
			if tok.Span.Start != covered {
				t.Fatalf("gap before %s at %d", tok.Describe(), tok.Span.Start)
			}
			covered = tok.Span.End
		}
		if int(covered) != len(file.Content) {
			t.Fatalf("tokens cover %d of %d bytes", covered, len(file.Content))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
