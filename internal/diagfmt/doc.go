// Package diagfmt renders compiler artefacts for humans and tools:
// diagnostics (pretty with source snippets, or JSON), token streams, syntax
// trees (outline, ASCII tree, JSON, raw dump) and type environments.
package diagfmt
