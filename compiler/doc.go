/*

Process of compilation

Program Text ->
	lex ->
Tokens ->
	parse (cst) ->
Concrete Syntax Tree (dot graph)

Tokens ->
	parse (ast) ->
Abstract Syntax Tree ->
	gen ->
Intermediate Representation (ir) ->
	text ->
MLIR module

*/
package compiler
