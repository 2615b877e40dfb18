// Package types describes the closed set of static types the checker
// infers: Integer, String and Boolean.
package types
