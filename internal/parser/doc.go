// Package parser turns a token stream into an ast.Program.
//
// Grammar (precedence grows with rule depth):
//
//	Program   -> {Statement}
//	Statement -> "let" Identifier "=" E ";"
//	           | E [";"]
//	E         -> T {("+" | "-") T}     левоассоциативно
//	T         -> F {("*" | "/") F}     левоассоциативно
//	F         -> P ["^" F]             правоассоциативно
//	P         -> Literal | Identifier | "(" E ")" | "-" T
//
// Unary minus recurses into T, so -a*b parses as -(a*b).
// Every decision uses at most one token of lookahead. The first error
// aborts the parse; there is no recovery.
package parser
