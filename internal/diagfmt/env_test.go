package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/go-test/deep"

	"tally/internal/sema"
)

func TestFormatEnv(t *testing.T) {
	prog, _ := parseProgram(t, `let a = 1; let bb = "s"; let ccc = true;`)
	env, err := sema.Check(context.Background(), prog)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatEnvPretty(&buf, env); err != nil {
		t.Fatal(err)
	}
	want := "a   : Integer\nbb  : String\nccc : Boolean\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := FormatEnvJSON(&buf, env); err != nil {
		t.Fatal(err)
	}
	var out EnvOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	wantJSON := []BindingOutput{
		{Name: "a", Type: "Integer", Pos: "1:5"},
		{Name: "bb", Type: "String", Pos: "1:16"},
		{Name: "ccc", Type: "Boolean", Pos: "1:30"},
	}
	if diff := deep.Equal(out.Bindings, wantJSON); diff != nil {
		t.Fatal(diff)
	}
}

func TestFormatEmptyEnvJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatEnvJSON(&buf, sema.NewEnv()); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\n  \"bindings\": []\n}\n" {
		t.Fatalf("got %q", got)
	}
}
