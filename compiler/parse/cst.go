package parse

import (
	"context"

	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

var spelling = map[token.Kind]string{
	token.Begin:     "BEGIN",
	token.End:       "END",
	token.Read:      "READ",
	token.Write:     "WRITE",
	token.ScanEOF:   "SCANEOF",
	token.AssignOp:  ":=",
	token.Semicolon: ";",
	token.LParen:    "(",
	token.RParen:    ")",
}

// terminal consumes one of the kinds and attaches it to n as a leaf.
func (p *Parser) terminal(ctx context.Context, n *tree.Node, rule string, kinds ...token.Kind) {
	tk, ok := p.expect(rule, kinds...)
	if !ok {
		return
	}

	text, ok := spelling[tk.Kind]
	if !ok {
		text = tk.Text
	}

	n.Add(p.node(ctx, string(tk.Kind), text))
}

// start ::= program SCANEOF
func (p *Parser) cstStart(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<start>", "START")

	p.cstProgram(ctx, n)

	p.terminal(ctx, n, "start", token.ScanEOF)

	parent.Add(n)
}

// program ::= BEGIN statement_list END
func (p *Parser) cstProgram(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<program>", "PROGRAM")

	p.terminal(ctx, n, "program", token.Begin)

	p.cstStatementList(ctx, n)

	p.terminal(ctx, n, "program", token.End)

	parent.Add(n)
}

// statement_list ::= statement { statement }
func (p *Parser) cstStatementList(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<statement list>", "STATEMENT_LIST")

	p.cstStatement(ctx, n)

	for p.cur.Is(token.ID, token.Read, token.Write) {
		p.cstStatement(ctx, n)
	}

	parent.Add(n)
}

func (p *Parser) cstStatement(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<statement>", "STATEMENT")

	tk, _ := p.cur.Peek()

	switch tk.Kind {
	case token.ID:
		p.cstAssign(ctx, n)
	case token.Read:
		p.cstRead(ctx, n)
	case token.Write:
		p.cstWrite(ctx, n)
	default:
		p.unexpected("statement", token.ID, token.Read, token.Write)
	}

	parent.Add(n)
}

// statement ::= ID ASSIGNOP expression SEMICOLON
func (p *Parser) cstAssign(ctx context.Context, n *tree.Node) {
	p.terminal(ctx, n, "assign", token.ID)
	p.terminal(ctx, n, "assign", token.AssignOp)

	p.cstExpression(ctx, n)

	p.terminal(ctx, n, "assign", token.Semicolon)
}

// statement ::= READ LPAREN id_list RPAREN SEMICOLON
func (p *Parser) cstRead(ctx context.Context, n *tree.Node) {
	p.terminal(ctx, n, "read", token.Read)
	p.terminal(ctx, n, "read", token.LParen)

	p.cstIDList(ctx, n)

	p.terminal(ctx, n, "read", token.RParen)
	p.terminal(ctx, n, "read", token.Semicolon)
}

// statement ::= WRITE LPAREN expression_list RPAREN SEMICOLON
func (p *Parser) cstWrite(ctx context.Context, n *tree.Node) {
	p.terminal(ctx, n, "write", token.Write)
	p.terminal(ctx, n, "write", token.LParen)

	p.cstExpressionList(ctx, n)

	p.terminal(ctx, n, "write", token.RParen)
	p.terminal(ctx, n, "write", token.Semicolon)
}

// id_list ::= ID { COMMA ID }
func (p *Parser) cstIDList(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<id list>", "ID_LIST")

	p.terminal(ctx, n, "id_list", token.ID)

	for p.cur.Is(token.Comma) {
		p.terminal(ctx, n, "id_list", token.Comma)
		p.terminal(ctx, n, "id_list", token.ID)
	}

	parent.Add(n)
}

// expression_list ::= expression { COMMA expression }
func (p *Parser) cstExpressionList(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<expression list>", "EXPRESSION_LIST")

	p.cstExpression(ctx, n)

	for p.cur.Is(token.Comma) {
		p.terminal(ctx, n, "expression_list", token.Comma)
		p.cstExpression(ctx, n)
	}

	parent.Add(n)
}

// expression ::= primary { add_op primary }
func (p *Parser) cstExpression(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<expression>", "EXPRESSION")

	p.cstPrimary(ctx, n)

	for p.cur.Is(token.PlusOp, token.MinusOp) {
		p.cstAddOp(ctx, n)
		p.cstPrimary(ctx, n)
	}

	parent.Add(n)
}

// primary ::= INTLITERAL | ID | LPAREN expression RPAREN
func (p *Parser) cstPrimary(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<primary>", "PRIMARY")

	tk, _ := p.cur.Peek()

	switch tk.Kind {
	case token.IntLiteral, token.ID:
		p.terminal(ctx, n, "primary", tk.Kind)
	case token.LParen:
		p.terminal(ctx, n, "primary", token.LParen)
		p.cstExpression(ctx, n)
		p.terminal(ctx, n, "primary", token.RParen)
	default:
		p.unexpected("primary", token.IntLiteral, token.ID, token.LParen)
	}

	parent.Add(n)
}

// add_op ::= PLUSOP | MINUSOP
func (p *Parser) cstAddOp(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, "<addop>", "ADDOP")

	p.terminal(ctx, n, "add_op", token.PlusOp, token.MinusOp)

	parent.Add(n)
}
