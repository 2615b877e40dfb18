// Package format prints tally programs in canonical form: one statement per
// line, single spaces around binary operators, parentheses only where the
// grammar needs them. Line comments between statements are kept.
package format
