package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/bmyjacks/microc/compiler/parse"
	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

// Format appends the program x, an abstract syntax tree, as source text.
func Format(ctx context.Context, b []byte, x *tree.Node) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x *tree.Node, d int) ([]byte, error) {
	switch x.Kind {
	case parse.AbstractRoot:
		return formatProgram(ctx, b, x, d)
	default:
		return nil, errors.New("unsupported node: %v", x.Kind)
	}
}

func formatProgram(ctx context.Context, b []byte, x *tree.Node, d int) (_ []byte, err error) {
	b = app(b, d, "begin\n")

	for _, l := range x.Children {
		if l.Kind != parse.StatementList {
			return nil, errors.New("unsupported node: %v", l.Kind)
		}

		b, err = formatBlock(ctx, b, l, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "block")
		}
	}

	b = app(b, d, "end\n")

	return b, nil
}

func formatBlock(ctx context.Context, b []byte, x *tree.Node, d int) (_ []byte, err error) {
	for i, s := range x.Children {
		switch token.Kind(s.Kind) {
		case token.AssignOp:
			if len(s.Children) != 2 {
				return nil, errors.New("stmt %d: assignment with %d children", i, len(s.Children))
			}

			b = app(b, d, "%s := ", s.Children[0].Text)

			b, err = formatExpr(ctx, b, s.Children[1])
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d: rhs", i)
			}
		case token.Read:
			b = app(b, d, "read(")

			for j, a := range s.Children {
				if j != 0 {
					b = append(b, ", "...)
				}

				b = append(b, a.Text...)
			}

			b = append(b, ')')
		case token.Write:
			b = app(b, d, "write(")

			for j, a := range s.Children {
				if j != 0 {
					b = append(b, ", "...)
				}

				b, err = formatExpr(ctx, b, a)
				if err != nil {
					return nil, errors.Wrap(err, "stmt %d: arg %d", i, j)
				}
			}

			b = append(b, ')')
		default:
			return nil, errors.New("unsupported stmt: %v", s.Kind)
		}

		b = append(b, ";\n"...)
	}

	return b, nil
}

func formatExpr(ctx context.Context, b []byte, x *tree.Node) (_ []byte, err error) {
	switch token.Kind(x.Kind) {
	case token.ID, token.IntLiteral:
		b = append(b, x.Text...)
	case token.PlusOp, token.MinusOp:
		if len(x.Children) != 2 {
			return nil, errors.New("%v with %d operands", x.Kind, len(x.Children))
		}

		l := x.Children[0]
		paren := isBinary(l)

		if paren {
			b = append(b, '(')
		}

		b, err = formatExpr(ctx, b, l)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		if paren {
			b = append(b, ')')
		}

		b = hfmt.Appendf(b, " %s ", x.Text)

		b, err = formatExpr(ctx, b, x.Children[1])
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	default:
		return nil, errors.New("unsupported expr: %v", x.Kind)
	}

	return b, nil
}

// isBinary reports whether x needs parentheses as a left operand.
// Operators group to the right, so the right operand never does.
func isBinary(x *tree.Node) bool {
	k := token.Kind(x.Kind)

	return k == token.PlusOp || k == token.MinusOp
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
