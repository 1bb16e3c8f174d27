package parse

import (
	"context"

	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

// AST node kinds that are not token kinds.
const (
	StatementList = "<statement list>"
)

// start ::= program SCANEOF
func (p *Parser) astStart(ctx context.Context, parent *tree.Node) {
	p.astProgram(ctx, parent)

	p.expect("start", token.ScanEOF)
}

// program ::= BEGIN statement_list END
func (p *Parser) astProgram(ctx context.Context, parent *tree.Node) {
	p.expect("program", token.Begin)

	p.astStatementList(ctx, parent)

	p.expect("program", token.End)
}

// statement_list ::= statement { statement }
func (p *Parser) astStatementList(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, StatementList, StatementList)

	p.astStatement(ctx, n)

	for p.cur.Is(token.ID, token.Read, token.Write) {
		p.astStatement(ctx, n)
	}

	parent.Add(n)
}

func (p *Parser) astStatement(ctx context.Context, parent *tree.Node) {
	tk, _ := p.cur.Peek()

	switch tk.Kind {
	case token.ID:
		p.astAssign(ctx, parent)
	case token.Read:
		p.astRead(ctx, parent)
	case token.Write:
		p.astWrite(ctx, parent)
	default:
		p.unexpected("statement", token.ID, token.Read, token.Write)
	}
}

// statement ::= ID ASSIGNOP expression SEMICOLON
func (p *Parser) astAssign(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, string(token.AssignOp), ":=")

	if tk, ok := p.expect("assign", token.ID); ok {
		n.Add(p.node(ctx, string(token.ID), tk.Text))
	}

	p.expect("assign", token.AssignOp)

	p.astExpression(ctx, n)

	p.expect("assign", token.Semicolon)

	parent.Add(n)
}

// statement ::= READ LPAREN id_list RPAREN SEMICOLON
func (p *Parser) astRead(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, string(token.Read), "read")

	p.expect("read", token.Read)
	p.expect("read", token.LParen)

	p.astIDList(ctx, n)

	p.expect("read", token.RParen)
	p.expect("read", token.Semicolon)

	parent.Add(n)
}

// statement ::= WRITE LPAREN expression_list RPAREN SEMICOLON
func (p *Parser) astWrite(ctx context.Context, parent *tree.Node) {
	n := p.node(ctx, string(token.Write), "write")

	p.expect("write", token.Write)
	p.expect("write", token.LParen)

	p.astExpressionList(ctx, n)

	p.expect("write", token.RParen)
	p.expect("write", token.Semicolon)

	parent.Add(n)
}

// id_list ::= ID { COMMA ID }
func (p *Parser) astIDList(ctx context.Context, parent *tree.Node) {
	if tk, ok := p.expect("id_list", token.ID); ok {
		parent.Add(p.node(ctx, string(token.ID), tk.Text))
	}

	for p.cur.Is(token.Comma) {
		p.cur.Advance()

		if tk, ok := p.expect("id_list", token.ID); ok {
			parent.Add(p.node(ctx, string(token.ID), tk.Text))
		}
	}
}

// expression_list ::= expression { COMMA expression }
func (p *Parser) astExpressionList(ctx context.Context, parent *tree.Node) {
	p.astExpression(ctx, parent)

	for p.cur.Is(token.Comma) {
		p.cur.Advance()

		p.astExpression(ctx, parent)
	}
}

// expression ::= primary [ add_op expression ]
//
// The primary is parsed into a temporary node. If an operator follows, the
// temporary becomes the operator node and the rest of the expression is its
// second operand. Otherwise the temporary's children move to parent.
func (p *Parser) astExpression(ctx context.Context, parent *tree.Node) {
	tmp := p.node(ctx, "TMP", "TMP")

	p.astPrimary(ctx, tmp)

	op, ok := p.accept(token.PlusOp, token.MinusOp)
	if !ok {
		parent.Add(tmp.Take()...)
		return
	}

	tmp.Kind = string(op.Kind)
	tmp.Text = op.Text

	p.astExpression(ctx, tmp)

	parent.Add(tmp)
}

// primary ::= INTLITERAL | ID | LPAREN expression RPAREN
func (p *Parser) astPrimary(ctx context.Context, parent *tree.Node) {
	tk, _ := p.cur.Peek()

	switch tk.Kind {
	case token.IntLiteral, token.ID:
		p.cur.Advance()

		parent.Add(p.node(ctx, string(tk.Kind), tk.Text))
	case token.LParen:
		p.cur.Advance()

		p.astExpression(ctx, parent)

		p.expect("primary", token.RParen)
	default:
		p.unexpected("primary", token.IntLiteral, token.ID, token.LParen)
	}
}
