package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-test/deep"

	"tally/internal/ast"
	"tally/internal/diag"
	"tally/internal/lexer"
	"tally/internal/parser"
	"tally/internal/source"
	"tally/internal/testkit"
	"tally/internal/trace"
)

func TestParseLets(t *testing.T) {
	prog, err := parseSource(t, "let a = 10;\nlet b = 5;\n// sum\nlet c = a + b * 10;")
	if err != nil {
		t.Fatal(err)
	}
	testkit.StripSpans(prog)
	want := &ast.Program{Nodes: []ast.Stmt{
		&ast.Let{Name: "a", Value: lit("10")},
		&ast.Let{Name: "b", Value: lit("5")},
		&ast.Let{Name: "c", Value: bin(ast.Add, ident("a"), bin(ast.Mult, ident("b"), lit("10")))},
	}}
	if diff := deep.Equal(prog, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestParseCommentsAtTopLevel(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.tl", []byte("// first\nlet a = 1; // trailing\n")))
	prog, err := parser.Parse(context.Background(), parser.FromLexer(lexer.New(file, lexer.Options{}), true))
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Nodes) != 1 {
		t.Fatalf("comments must be skipped, got %d nodes", len(prog.Nodes))
	}
}

func TestParseExpressionStatements(t *testing.T) {
	prog, err := parseSource(t, "let a = 1; a + 1; -a\n(a)")
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Format(prog); got != "(let a 1)\n(+ a 1)\n(- a)\na" {
		t.Fatalf("unexpected program:\n%s", got)
	}
	if _, ok := prog.Nodes[1].(*ast.ExprStmt); !ok {
		t.Fatalf("expected expression statement, got %T", prog.Nodes[1])
	}
}

func TestParseSpansHoldInvariants(t *testing.T) {
	src := "let a = 10;\nlet b = (a - 1) ^ 2 ^ 2;\n-b * a;"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.tl", []byte(src)))
	prog, err := parser.Parse(context.Background(), parser.FromLexer(lexer.New(file, lexer.Options{}), false))
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckSpanInvariants(prog, file); err != nil {
		t.Fatal(err)
	}
	let := prog.Nodes[1].(*ast.Let)
	if string(file.Content[let.NameSpan.Start:let.NameSpan.End]) != "b" {
		t.Fatalf("name span points at %q", file.Content[let.NameSpan.Start:let.NameSpan.End])
	}
	if string(file.Content[let.Span.Start:let.Span.End]) != "let b = (a - 1) ^ 2 ^ 2;" {
		t.Fatalf("let span covers %q", file.Content[let.Span.Start:let.Span.End])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		is   error
		code diag.Code
		msg  string
	}{
		{"missing name", "let = 1;", parser.ErrExpectedToken, diag.SynExpectIdentifier, "1:5: expected Identifier, found Equals"},
		{"keyword as name", "let let = 1;", parser.ErrExpectedToken, diag.SynExpectIdentifier, "1:5: expected Identifier, found Keyword(Let)"},
		{"missing equals", "let a 1;", parser.ErrExpectedToken, diag.SynExpectEquals, `1:7: expected Equals, found Literal(Integer, "1")`},
		{"missing semi", "let a = 1\nlet b = 2;", parser.ErrExpectedToken, diag.SynExpectSemicolon, "2:1: expected Semi, found Keyword(Let)"},
		{"unclosed paren", "let a = (1 + 2;", parser.ErrExpectedToken, diag.SynUnclosedParen, "1:15: expected RSmooth, found Semi"},
		{"bad primary", "let a = * 2;", parser.ErrUnexpectedToken, diag.SynUnexpectedToken, "1:9: unexpected Asterix"},
		{"top level", "; let a = 1;", parser.ErrUnexpectedToken, diag.SynUnexpectedTopLevel, "1:1: unexpected Semi"},
		{"unknown char", "let a = $;", parser.ErrUnexpectedToken, diag.SynUnexpectedToken, `1:9: unexpected Unknown("$")`},
		{"dangling operator", "1 +", parser.ErrExpectedTokenToFollow, diag.SynExpectTokenToFollow, "1:4: expected token to follow, but found none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := parseSource(t, tc.src)
			if err == nil {
				t.Fatalf("expected error, got %s", ast.Format(prog))
			}
			if prog != nil {
				t.Fatalf("no partial program on error")
			}
			if !errors.Is(err, tc.is) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tc.is)
			}
			var perr *parser.Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *parser.Error, got %T", err)
			}
			if perr.Code != tc.code {
				t.Fatalf("code: got %s, want %s", perr.Code.ID(), tc.code.ID())
			}
			if err.Error() != tc.msg {
				t.Fatalf("message: got %q, want %q", err.Error(), tc.msg)
			}
			if d := perr.Diagnostic(); d.Severity != diag.SevError || d.Code != tc.code {
				t.Fatalf("unexpected diagnostic %+v", d)
			}
		})
	}
}

func TestParseEmitsTrace(t *testing.T) {
	ring := trace.NewRingTracer(32, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.tl", []byte("let a = 1; a")))
	if _, err := parser.Parse(ctx, parser.FromLexer(lexer.New(file, lexer.Options{}), false)); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Kind.String()+":"+ev.Name)
	}
	want := []string{"begin:parse", "point:let a", "point:expr", "end:parse"}
	if diff := deep.Equal(names, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestEmptyProgram(t *testing.T) {
	prog, err := parser.Parse(context.Background(), parser.FromSlice(nil))
	if err != nil || len(prog.Nodes) != 0 {
		t.Fatalf("empty input must give an empty program, got %v %v", prog, err)
	}
}
