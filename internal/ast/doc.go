// Package ast holds the syntax tree produced by the parser.
//
// The tree is owned: every composite node exclusively owns its children,
// there are no back references and no sharing between nodes. Statements
// (Let, ExprStmt) live in Program.Nodes in source order.
package ast
