// Package token defines lexical token kinds for tally.
// Invariants:
//   - Token.Span covers exactly the source bytes of the token, quotes included.
//   - Token.Pos is the zero-based position of the first character.
//   - Token equality (Equal) ignores Pos and Span: position is metadata.
//   - "true"/"false" are Boolean literals, never identifiers or keywords.
package token
