// Package sema infers the type of every top-level binding.
//
// Check folds over the program in source order and builds an Env. The fold
// is fail-fast: the first unknown identifier, redeclaration or operand type
// mismatch aborts the check and no partial environment is returned.
//
// Typing rules:
//
//	Literal(Integer)  -> Integer
//	Literal(String)   -> String
//	Literal(Boolean)  -> Boolean
//	Ident(name)       -> type bound to name, else UnknownIdent
//	-x                -> type of x (the operator is not checked)
//	lhs op rhs        -> type of lhs when both sides agree, else MismatchedTypes
//
// Operators do not refine the result, so "a" + "b" is a String and -"x" is
// accepted as well.
package sema
