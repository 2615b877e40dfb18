package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"

	"tally/internal/diag"
	"tally/internal/lexer"
	"tally/internal/observ"
	"tally/internal/parser"
	"tally/internal/sema"
	"tally/internal/token"
	"tally/internal/types"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckSuccess(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.tl", "let a = 10; // ten\nlet b = 5;\nlet c = a + b * 10;\n")
	timer := observ.NewTimer()
	res, err := Check(context.Background(), path, Options{Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	want := map[string]types.Type{"a": types.Integer, "b": types.Integer, "c": types.Integer}
	if diff := deep.Equal(res.Env.Map(), want); diff != nil {
		t.Fatal(diff)
	}
	if res.Stage != StageSema || res.Bag.Len() != 0 {
		t.Fatalf("stage %s, %d diagnostics", res.Stage, res.Bag.Len())
	}
	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if diff := deep.Equal(names, []string{"lex", "parse", "sema"}); diff != nil {
		t.Fatal(diff)
	}
}

func TestCheckStopsAtFirstFailingStage(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		stage    Stage
		sentinel error
		code     diag.Code
	}{
		{"lex", "let a = 99999999999999999999;", StageLex, lexer.ErrBadNumber, diag.LexBadNumber},
		{"parse", "let a = 1", StageParse, parser.ErrExpectedTokenToFollow, diag.SynExpectTokenToFollow},
		{"parse expected", "let a 1;", StageParse, parser.ErrExpectedToken, diag.SynExpectEquals},
		{"sema", "let a = 1; let a = 2;", StageSema, sema.ErrIdentRedeclared, diag.SemaDuplicateSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckSource(context.Background(), "<inline>", []byte(tt.src), Options{})
			if !res.Failed() || res.Stage != tt.stage {
				t.Fatalf("stage %s, err %v", res.Stage, res.Err)
			}
			if !errors.Is(res.Err, tt.sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false", res.Err, tt.sentinel)
			}
			if res.Env != nil {
				t.Fatal("failed check must not produce an environment")
			}
			items := res.Bag.Items()
			if len(items) != 1 || items[0].Code != tt.code {
				t.Fatalf("diagnostics: %+v", items)
			}
		})
	}
}

func TestExpectedTokenToFollowPointsAtEOF(t *testing.T) {
	res := CheckSource(context.Background(), "<inline>", []byte("let a =\n"), Options{})
	if res.Err == nil || res.Err.Error() != "2:1: expected token to follow, but found none" {
		t.Fatalf("got %v", res.Err)
	}
}

func TestTokenizeKeepsTrivia(t *testing.T) {
	path := writeSource(t, t.TempDir(), "t.tl", "a // c\n")
	res, err := Tokenize(context.Background(), path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	kinds := make([]token.Kind, len(res.Tokens))
	for i, tok := range res.Tokens {
		kinds[i] = tok.Kind
	}
	want := []token.Kind{token.Ident, token.Whitespace, token.Comment, token.Whitespace, token.EOF}
	if diff := deep.Equal(kinds, want); diff != nil {
		t.Fatal(diff)
	}
	if res.Program != nil {
		t.Fatal("tokenize must not parse")
	}
}

func TestParseKeepComments(t *testing.T) {
	path := writeSource(t, t.TempDir(), "t.tl", "// head\nlet a = 1; // tail\n")
	for _, keep := range []bool{false, true} {
		res, err := Parse(context.Background(), path, Options{KeepComments: keep})
		if err != nil {
			t.Fatal(err)
		}
		if res.Failed() || len(res.Program.Nodes) != 1 || res.Env != nil {
			t.Fatalf("keep=%v: %+v", keep, res)
		}
	}
}

func TestWarningsDoNotStopPipeline(t *testing.T) {
	// незакрытая строка съедает всё до EOF, поэтому она последняя и без ';'
	src := "let a = 1;\nlet b = a + 2;\n\"open;\n"
	res := CheckSource(context.Background(), "<inline>", []byte(src), Options{})
	if res.Failed() {
		t.Fatal(res.Err)
	}
	if res.Bag.HasErrors() || res.Bag.Len() != 1 {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
	if code := res.Bag.Items()[0].Code; code != diag.LexUnterminatedString {
		t.Fatalf("code: %v", code)
	}
	if typ, _ := res.Env.Lookup("b"); typ != types.Integer {
		t.Fatalf("b: %v", typ)
	}
	if len(res.Program.Nodes) != 3 {
		t.Fatalf("nodes: %d", len(res.Program.Nodes))
	}
}

func TestCheckMissingFile(t *testing.T) {
	if _, err := Check(context.Background(), filepath.Join(t.TempDir(), "nope.tl"), Options{}); err == nil {
		t.Fatal("expected load error")
	}
}

type recordingSink struct{ events []Event }

func (s *recordingSink) OnEvent(e Event) { s.events = append(s.events, e) }

func TestProgressEvents(t *testing.T) {
	sink := &recordingSink{}
	CheckSource(context.Background(), "<inline>", []byte("let a = b;"), Options{Progress: sink})
	var got []string
	for _, e := range sink.events {
		got = append(got, string(e.Stage)+":"+string(e.Status))
	}
	want := []string{"lex:working", "parse:working", "sema:working", "sema:error"}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatal(diff)
	}
}
