package lexer_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/go-test/deep"

	"tally/internal/diag"
	"tally/internal/lexer"
	"tally/internal/source"
	"tally/internal/token"
	"tally/internal/trace"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.tl", []byte(input)))
	bag := diag.NewBag(16)
	return lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	lx, _ := makeTestLexer(input)
	var toks []token.Token
	for tok, err := range lx.All() {
		if err != nil {
			t.Fatalf("lex %q: %v", input, err)
		}
		toks = append(toks, tok)
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestOperatorsAndDelimiters(t *testing.T) {
	got := kinds(lexAll(t, "=+-*/^();"))
	want := []token.Kind{
		token.Equals, token.Plus, token.Minus, token.Asterix, token.Slash,
		token.Hat, token.LSmooth, token.RSmooth, token.Semi,
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestIntegerLiteralKeepsRawChars(t *testing.T) {
	toks := lexAll(t, "000090")
	if len(toks) != 1 {
		t.Fatalf("expected one token, got %d", len(toks))
	}
	tok := toks[0]
	if tok.Kind != token.Literal || tok.Lit != token.LitInteger {
		t.Fatalf("expected integer literal, got %s", tok.Describe())
	}
	if diff := deep.Equal(tok.Chars, []rune{'0', '0', '0', '0', '9', '0'}); diff != nil {
		t.Fatal(diff)
	}
	if tok.Value != 90 {
		t.Fatalf("expected value 90, got %d", tok.Value)
	}
}

func TestMinusThenInteger(t *testing.T) {
	toks := lexAll(t, "-90")
	want := []token.Token{
		{Kind: token.Minus},
		{Kind: token.Literal, Lit: token.LitInteger, Chars: []rune("90")},
	}
	assertTokens(t, toks, want)
	if toks[1].Pos != (source.Position{Line: 0, Column: 1}) {
		t.Fatalf("literal position: got %v", toks[1].Pos)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := lexAll(t, `"this is a \\very\\ cool \"string\"\\"`)
	if len(toks) != 1 || toks[0].Lit != token.LitString {
		t.Fatalf("expected a single string literal, got %v", kinds(toks))
	}
	want := `this is a \very\ cool "string"\`
	if got := string(toks[0].Chars); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if sp := toks[0].Span; sp.Start != 0 || int(sp.End) != len(`"this is a \\very\\ cool \"string\"\\"`) {
		t.Fatalf("span must include both quotes, got %v", sp)
	}
}

func TestUnterminatedStringWarns(t *testing.T) {
	lx, bag := makeTestLexer(`"abc`)
	tok, err := lx.Next()
	if err != nil {
		t.Fatal(err)
	}
	if string(tok.Chars) != "abc" {
		t.Fatalf("got %q", string(tok.Chars))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LEX1002 warning, got %+v", bag.Items())
	}
	if bag.HasErrors() {
		t.Fatalf("unterminated string must be a warning")
	}
}

func TestIdentKeywordBoolean(t *testing.T) {
	toks := lexAll(t, "let true false lettuce _x")
	want := []token.Token{
		{Kind: token.Keyword, Keyword: token.KwLet},
		{Kind: token.Whitespace},
		{Kind: token.Literal, Lit: token.LitBoolean, Bool: true},
		{Kind: token.Whitespace},
		{Kind: token.Literal, Lit: token.LitBoolean, Bool: false},
		{Kind: token.Whitespace},
		{Kind: token.Ident, Text: "lettuce"},
		{Kind: token.Whitespace},
		{Kind: token.Ident, Text: "_x"},
	}
	assertTokens(t, toks, want)
}

func TestIdentStopsAtDigit(t *testing.T) {
	toks := lexAll(t, "a1")
	want := []token.Token{
		{Kind: token.Ident, Text: "a"},
		{Kind: token.Literal, Lit: token.LitInteger, Chars: []rune("1")},
	}
	assertTokens(t, toks, want)
}

func TestWhitespaceCollapses(t *testing.T) {
	toks := lexAll(t, "a \t\n\r\n b")
	if diff := deep.Equal(kinds(toks), []token.Kind{token.Ident, token.Whitespace, token.Ident}); diff != nil {
		t.Fatal(diff)
	}
	if toks[2].Pos != (source.Position{Line: 2, Column: 1}) {
		t.Fatalf("b position: got %v", toks[2].Pos)
	}
}

func TestCommentsAndSlash(t *testing.T) {
	toks := lexAll(t, "4 / 2 // half of it\nx")
	want := []token.Token{
		{Kind: token.Literal, Lit: token.LitInteger, Chars: []rune("4")},
		{Kind: token.Whitespace},
		{Kind: token.Slash},
		{Kind: token.Whitespace},
		{Kind: token.Literal, Lit: token.LitInteger, Chars: []rune("2")},
		{Kind: token.Whitespace},
		{Kind: token.Comment, Text: " half of it"},
		{Kind: token.Whitespace},
		{Kind: token.Ident, Text: "x"},
	}
	assertTokens(t, toks, want)
}

func TestUnknownCharacterPassesThrough(t *testing.T) {
	lx, bag := makeTestLexer("a $ b")
	var toks []token.Token
	for tok, err := range lx.All() {
		if err != nil {
			t.Fatal(err)
		}
		toks = append(toks, tok)
	}
	if toks[2].Kind != token.Unknown || toks[2].Text != "$" {
		t.Fatalf("expected Unknown($), got %s", toks[2].Describe())
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexUnknownChar || items[0].Severity != diag.SevWarning {
		t.Fatalf("expected a single LEX1001 warning, got %+v", items)
	}
	if items[0].Primary.Start != 2 || items[0].Primary.End != 3 {
		t.Fatalf("unexpected warning span %v", items[0].Primary)
	}
}

func TestIntegerOverflowAbortsStream(t *testing.T) {
	lx, _ := makeTestLexer("1 + 99999999999999999999 + 2")
	var seen []token.Kind
	var lexErr error
	for tok, err := range lx.All() {
		if err != nil {
			lexErr = err
			break
		}
		seen = append(seen, tok.Kind)
	}
	if lexErr == nil {
		t.Fatalf("expected a lexical error")
	}
	if !errors.Is(lexErr, lexer.ErrBadNumber) {
		t.Fatalf("expected ErrBadNumber, got %v", lexErr)
	}
	var numErr *strconv.NumError
	if !errors.As(lexErr, &numErr) || !errors.Is(numErr, strconv.ErrRange) {
		t.Fatalf("expected wrapped range error, got %v", lexErr)
	}
	var le *lexer.Error
	if !errors.As(lexErr, &le) || le.Pos != (source.Position{Line: 0, Column: 4}) {
		t.Fatalf("unexpected error position: %v", lexErr)
	}
	if le.Error() != "1:5: malformed integer literal 99999999999999999999" {
		t.Fatalf("unexpected message %q", le.Error())
	}
	if diff := deep.Equal(seen, []token.Kind{token.Literal, token.Whitespace, token.Plus, token.Whitespace}); diff != nil {
		t.Fatal(diff)
	}

	// поток остановлен: ошибка липкая
	if _, err := lx.Next(); !errors.Is(err, lexer.ErrBadNumber) {
		t.Fatalf("expected sticky error, got %v", err)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("")
	for range 3 {
		tok, err := lx.Next()
		if err != nil || tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v %v", tok.Kind, err)
		}
	}
}

func TestPositionsMonotonic(t *testing.T) {
	toks := lexAll(t, "let a = 1;\nlet b = \"x\" // c\n  a + b")
	for i := 1; i < len(toks); i++ {
		if toks[i].Pos.Before(toks[i-1].Pos) {
			t.Fatalf("token %d at %v precedes token %d at %v", i, toks[i].Pos, i-1, toks[i-1].Pos)
		}
		if toks[i].Span.Start != toks[i-1].Span.End {
			t.Fatalf("spans must be contiguous: %v then %v", toks[i-1].Span, toks[i].Span)
		}
	}
}

func TestRelexIsIdempotent(t *testing.T) {
	src := "let c = a + b * 10; // done"
	first := lexAll(t, src)
	second := lexAll(t, src)
	if diff := deep.Equal(first, second); diff != nil {
		t.Fatal(diff)
	}
}

func TestTokenize(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.tl", []byte("1 99999999999999999999")))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(toks) != 2 {
		t.Fatalf("tokens before the error must be returned, got %d", len(toks))
	}
}

func assertTokens(t *testing.T, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count: got %d, want %d (%v)", len(got), len(want), kinds(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("token %d: got %s, want %s", i, got[i].Describe(), want[i].Describe())
		}
	}
}

func TestTokenizeContextKeepsEOFAndTraces(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.tl", []byte("a\n")))

	toks, err := lexer.TokenizeContext(ctx, file, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	if diff := deep.Equal(kinds, []token.Kind{token.Ident, token.Whitespace, token.EOF}); diff != nil {
		t.Fatal(diff)
	}
	if eof := toks[2]; eof.Pos != (source.Position{Line: 1, Column: 0}) {
		t.Fatalf("EOF position %s", eof.Pos)
	}

	events := ring.Snapshot()
	if len(events) != 2 || events[1].Name != "lex" || events[1].Extra["tokens"] != "3" {
		t.Fatalf("events: %+v", events)
	}
}

func TestWarningsCarryFixes(t *testing.T) {
	lx, bag := makeTestLexer("a $ \"abc\nb")
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", items)
	}
	unknown := items[0]
	if unknown.Code != diag.LexUnknownChar || len(unknown.Fixes) != 1 {
		t.Fatalf("unknown char: %+v", unknown)
	}
	if e := unknown.Fixes[0].Edits[0]; e.Span.Start != 2 || e.Span.End != 3 || e.NewText != "" || e.OldText != "$" {
		t.Fatalf("unknown char edit: %+v", e)
	}
	// удаление символа может склеить соседние токены
	if app := unknown.Fixes[0].Applicability; app != diag.FixApplicabilitySafeWithHeuristics {
		t.Fatalf("unknown char applicability = %s", app)
	}

	unterminated := items[1]
	if unterminated.Code != diag.LexUnterminatedString || len(unterminated.Fixes) != 1 {
		t.Fatalf("unterminated: %+v", unterminated)
	}
	f := unterminated.Fixes[0]
	if f.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Fatalf("applicability = %s", f.Applicability)
	}
	// кавычка закрывается в конце первой строки, а не в конце файла
	if e := f.Edits[0]; e.Span.Start != 8 || e.Span.End != 8 || e.NewText != `"` {
		t.Fatalf("unterminated edit: %+v", e)
	}
}
