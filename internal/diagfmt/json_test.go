package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"tally/internal/diag"
	"tally/internal/source"
)

func TestJSONDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tl", []byte("let a = 1;\nlet a = 2;\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaDuplicateSymbol, source.Span{File: fileID, Start: 15, End: 16},
		"Cannot redeclare ident a (yet)").
		WithNote(source.Span{File: fileID, Start: 4, End: 5}, "previous declaration here"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count: %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3002" || d.Severity != "ERROR" {
		t.Errorf("got %s %s", d.Severity, d.Code)
	}
	if d.Location.File != "test.tl" || d.Location.StartLine != 2 || d.Location.StartCol != 5 {
		t.Errorf("location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Errorf("notes: %+v", d.Notes)
	}
}

func TestJSONWithoutPositionsOrNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tl", []byte("x"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{File: fileID, Start: 0, End: 1}, "Unknown ident x").
		WithNote(source.Span{File: fileID}, "ignored"))
	bag.Add(diag.NewWarning(diag.LexUnknownChar, source.Span{File: fileID}, "cut"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("max ignored: %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Notes != nil {
		t.Fatalf("unexpected extras: %+v", d)
	}
}

func TestJSONFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tl", []byte("let a = 1"))
	at := source.Span{File: fileID, Start: 9, End: 9}
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SynExpectSemicolon, at, "expected ;").
		WithFix(diag.Fix{Title: "b heuristic", Applicability: diag.FixApplicabilitySafeWithHeuristics,
			Edits: []diag.TextEdit{{Span: at, NewText: ";"}}}).
		WithFix(diag.Fix{Title: "a preferred", IsPreferred: true,
			Edits: []diag.TextEdit{{Span: at, NewText: ";"}}}))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true})
	fixes := out.Diagnostics[0].Fixes
	if len(fixes) != 2 {
		t.Fatalf("fixes: %+v", fixes)
	}
	if fixes[0].Title != "a preferred" || !fixes[0].IsPreferred || fixes[0].Applicability != "always-safe" {
		t.Errorf("first fix: %+v", fixes[0])
	}
	if fixes[1].Applicability != "safe-with-heuristics" {
		t.Errorf("second fix: %+v", fixes[1])
	}
	edit := fixes[0].Edits[0]
	if edit.NewText != ";" || edit.Location.StartByte != 9 || edit.Location.StartLine != 1 || edit.Location.StartCol != 10 {
		t.Errorf("edit: %+v", edit)
	}

	plain := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if plain.Diagnostics[0].Fixes != nil {
		t.Errorf("fixes without IncludeFixes: %+v", plain.Diagnostics[0].Fixes)
	}
}
