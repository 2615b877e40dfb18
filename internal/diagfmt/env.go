package diagfmt

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"tally/internal/sema"
)

type BindingOutput struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Pos  string `json:"pos,omitempty"`
}

type EnvOutput struct {
	File     string          `json:"file,omitempty"`
	Bindings []BindingOutput `json:"bindings"`
	Cached   bool            `json:"cached,omitempty"`
}

// BuildEnvOutput lists the bindings in declaration order.
func BuildEnvOutput(env *sema.Env) EnvOutput {
	out := EnvOutput{Bindings: make([]BindingOutput, 0, env.Len())}
	for _, b := range env.Bindings() {
		bo := BindingOutput{Name: b.Name, Type: b.Type.String()}
		if !b.Span.Empty() {
			bo.Pos = b.Pos.String()
		}
		out.Bindings = append(out.Bindings, bo)
	}
	return out
}

// FormatEnvPretty prints one "name: Type" line per binding with the names
// aligned.
func FormatEnvPretty(w io.Writer, env *sema.Env) error {
	width := 0
	for _, name := range env.Names() {
		width = max(width, runewidth.StringWidth(name))
	}
	for name, typ := range env.All() {
		if _, err := fmt.Fprintf(w, "%s : %s\n", padTo(name, width), typ); err != nil {
			return err
		}
	}
	return nil
}

func FormatEnvJSON(w io.Writer, env *sema.Env) error {
	return encodeJSON(w, BuildEnvOutput(env))
}

// FileEnvOutput is one entry of a directory check in JSON form.
type FileEnvOutput struct {
	EnvOutput
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// BuildFileEnvOutput combines the environment of one file with the
// diagnostics reported for it.
func BuildFileEnvOutput(path string, env *sema.Env, cached bool, diags DiagnosticsOutput) FileEnvOutput {
	out := FileEnvOutput{EnvOutput: BuildEnvOutput(env), Diagnostics: diags.Diagnostics}
	out.File = path
	out.Cached = cached
	return out
}

func FormatFileEnvJSON(w io.Writer, out FileEnvOutput) error {
	return encodeJSON(w, out)
}

// FormatFilesEnvJSON writes a directory check as a JSON array in path order.
func FormatFilesEnvJSON(w io.Writer, outs []FileEnvOutput) error {
	if outs == nil {
		outs = []FileEnvOutput{}
	}
	return encodeJSON(w, outs)
}
