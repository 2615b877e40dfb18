package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tally/internal/diag"
)

func TestTestdataOK(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "ok")
	for _, name := range tlFiles(t, dir) {
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, name+".tl"))
			if err != nil {
				t.Fatal(err)
			}
			res := CheckSource(context.Background(), name+".tl", src, Options{})
			if res.Failed() || res.Bag.Len() != 0 {
				t.Fatalf("diagnostics:\n%s", diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, true))
			}
		})
	}
}

func TestTestdataBadGolden(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "bad")
	for _, name := range tlFiles(t, dir) {
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, name+".tl"))
			if err != nil {
				t.Fatal(err)
			}
			wantBytes, err := os.ReadFile(filepath.Join(dir, name+".golden"))
			if err != nil {
				t.Fatalf("read %s.golden: %v", name, err)
			}
			res := CheckSource(context.Background(), name+".tl", src, Options{})
			if !res.Failed() {
				t.Fatal("expected a failing stage")
			}
			want := strings.TrimRight(string(wantBytes), "\n")
			got := diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, true)
			if got != want {
				t.Fatalf("diagnostics mismatch:\nwant:\n%s\n\ngot:\n%s", want, got)
			}
		})
	}
}

// tlFiles returns the *.tl names in dir without the extension.
func tlFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	var names []string
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".tl") {
			continue
		}
		names = append(names, strings.TrimSuffix(ent.Name(), ".tl"))
	}
	if len(names) == 0 {
		t.Fatalf("no .tl files in %s", dir)
	}
	return names
}
