package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

type (
	// Parser builds concrete and abstract syntax trees from one token list.
	// Grammar mismatches never stop parsing: the missing terminal or child is
	// skipped and an UnexpectedError is recorded.
	Parser struct {
		toks []token.Token

		cur *token.Cursor
		ids tree.IDs

		diags []UnexpectedError
	}

	UnexpectedError struct {
		Rule string
		Want []token.Kind

		Got   token.Token
		Found bool // false at end of input

		Pos int // token index
	}
)

const (
	ConcreteRoot = "ConcreteSyntaxTree"
	AbstractRoot = "AbstractSyntaxTree"
)

func New(toks []token.Token) *Parser {
	return &Parser{
		toks: toks,
	}
}

// CST builds the concrete syntax tree: one node per grammar rule
// occurrence plus one per consumed terminal.
func (p *Parser) CST(ctx context.Context) *tree.Node {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse: cst", "tokens", len(p.toks))
	defer tr.Finish()

	p.begin()

	root := p.ids.New(ConcreteRoot, ConcreteRoot)

	p.cstStart(ctx, root)

	p.finish(ctx, root)

	return root
}

// AST builds the simplified tree. Expression chains are folded to the right:
// a - b - c gives MINUSOP(a, MINUSOP(b, c)).
func (p *Parser) AST(ctx context.Context) *tree.Node {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse: ast", "tokens", len(p.toks))
	defer tr.Finish()

	p.begin()

	root := p.ids.New(AbstractRoot, AbstractRoot)

	p.astStart(ctx, root)

	p.finish(ctx, root)

	return root
}

// Diagnostics returns grammar mismatches seen by the last pass.
func (p *Parser) Diagnostics() []UnexpectedError {
	return p.diags
}

func (p *Parser) begin() {
	p.cur = token.NewCursor(p.toks)
	p.ids.Reset()
	p.diags = nil
}

func (p *Parser) finish(ctx context.Context, root *tree.Node) {
	tr := tlog.SpanFromContext(ctx)

	tr.Printw("tree built", "nodes", root.Len(), "depth", root.Depth(), "consumed", p.cur.Pos(), "diags", len(p.diags))

	if tr.If("dump_tree") {
		tr.Printw("tree", "root", root)
	}

	for _, d := range p.diags {
		tr.V("diags").Printw("grammar mismatch", "rule", d.Rule, "want", d.Want, "got", d.Got, "found", d.Found, "pos", d.Pos)
	}
}

func (p *Parser) node(ctx context.Context, kind, text string) *tree.Node {
	n := p.ids.New(kind, text)

	if tr := tlog.SpanFromContext(ctx); tr.If("parse_node") {
		tr.Printw("node", "id", n.ID, "kind", kind, "text", text, "tok", p.cur.Pos(), "from", loc.Caller(1))
	}

	return n
}

// accept consumes the next token if it has one of the kinds.
func (p *Parser) accept(kinds ...token.Kind) (token.Token, bool) {
	if !p.cur.Is(kinds...) {
		return token.Token{}, false
	}

	tk, _ := p.cur.Peek()
	p.cur.Advance()

	return tk, true
}

// expect is accept that records a mismatch.
func (p *Parser) expect(rule string, kinds ...token.Kind) (token.Token, bool) {
	tk, ok := p.accept(kinds...)
	if !ok {
		p.unexpected(rule, kinds...)
	}

	return tk, ok
}

func (p *Parser) unexpected(rule string, want ...token.Kind) {
	e := UnexpectedError{
		Rule: rule,
		Want: want,
		Pos:  p.cur.Pos(),
	}

	e.Got, e.Found = p.cur.Peek()

	p.diags = append(p.diags, e)
}

func (e UnexpectedError) Error() string {
	l := make([]string, len(e.Want))

	for i, k := range e.Want {
		l[i] = string(k)
	}

	got := "end of input"
	if e.Found {
		got = fmt.Sprintf("%q (%v)", e.Got.Text, e.Got.Kind)
	}

	return fmt.Sprintf("%v: unexpected %v at token %d, want: %v", e.Rule, got, e.Pos, strings.Join(l, ", "))
}
