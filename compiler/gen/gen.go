package gen

import (
	"context"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/bmyjacks/microc/compiler/ir"
	"github.com/bmyjacks/microc/compiler/set"
	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

type (
	KeyKind int

	// Key identifies a value: an operator node by its identity,
	// a variable or literal by its text.
	Key struct {
		Kind KeyKind
		ID   tree.ID
		Name string
	}

	// Generator lowers an AST to IR. It numbers values SSA style:
	// every definition gets a fresh register and the table remembers the
	// latest register of each key.
	Generator struct {
		vals map[Key]ir.Reg
		next ir.Reg

		f *ir.Func

		defined set.Bits[ir.Reg]
		undef   set.Bits[ir.Reg]
	}
)

const (
	ByIdentityKey KeyKind = iota
	ByNameKey
)

const MainFunc = "main"

func ByIdentity(id tree.ID) Key {
	return Key{Kind: ByIdentityKey, ID: id}
}

func ByName(name string) Key {
	return Key{Kind: ByNameKey, Name: name}
}

func KeyOf(n *tree.Node) Key {
	switch token.Kind(n.Kind) {
	case token.PlusOp, token.MinusOp:
		return ByIdentity(n.ID)
	default:
		return ByName(n.Text)
	}
}

func New() *Generator {
	return &Generator{
		vals:    make(map[Key]ir.Reg),
		defined: set.MakeBits[ir.Reg](),
		undef:   set.MakeBits[ir.Reg](),
	}
}

// Text lowers root with a fresh generator and renders the module.
func Text(ctx context.Context, root *tree.Node) ([]byte, error) {
	m, err := New().Generate(ctx, root)
	if err != nil {
		return nil, err
	}

	return m.Text()
}

// Generate lowers the AST into the body of the main function.
// Registers keep counting if the generator is reused.
func (g *Generator) Generate(ctx context.Context, root *tree.Node) (m *ir.Module, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "gen", "nodes", root.Len())
	defer tr.Finish("err", &err)

	g.f = &ir.Func{Name: MainFunc}

	err = g.lower(ctx, root)
	if err != nil {
		return nil, err
	}

	m = ir.NewModule()
	m.Funcs = append(m.Funcs, g.f)

	tr.Printw("generated", "instrs", len(g.f.Code), "regs", g.next, "values", len(g.vals))

	if g.undef.Size() != 0 {
		tr.Printw("registers used before definition", "regs", g.undef)
	}

	return m, nil
}

// Undefined returns registers used as operands that no instruction defined.
func (g *Generator) Undefined() []ir.Reg {
	return g.undef.Slice()
}

func (g *Generator) lower(ctx context.Context, n *tree.Node) (err error) {
	switch token.Kind(n.Kind) {
	case token.Read:
		for _, ch := range n.Children {
			if first, r := g.ssa(ctx, ch, false); first {
				g.emit(ctx, ir.Const{Out: g.def(r), Decl: ch.Text})
			}

			_, r := g.ssa(ctx, ch, true)
			g.emit(ctx, ir.Call{Out: []ir.Reg{g.def(r)}, Func: ir.ReadFunc})
		}

		g.emit(ctx, ir.Sep{})
	case token.Write:
		for i, ch := range n.Children {
			// variables are printed from their latest register as is
			if token.Kind(ch.Kind) != token.ID {
				err = g.lower(ctx, ch)
				if err != nil {
					return errors.Wrap(err, "write arg %d", i)
				}
			}

			_, r := g.ssa(ctx, ch, false)
			g.emit(ctx, ir.Call{Func: ir.PrintFunc, In: []ir.Reg{g.use(r)}})
		}
	case token.IntLiteral:
		v, err := literal(n)
		if err != nil {
			return err
		}

		_, r := g.ssa(ctx, n, true)
		g.emit(ctx, ir.Const{Out: g.def(r), Value: v})
	case token.PlusOp, token.MinusOp:
		if len(n.Children) != 2 {
			return errors.New("%v node %d: want 2 operands, got %d", n.Kind, n.ID, len(n.Children))
		}

		err = g.lower(ctx, n.Children[0])
		if err != nil {
			return errors.Wrap(err, "left")
		}

		err = g.lower(ctx, n.Children[1])
		if err != nil {
			return errors.Wrap(err, "right")
		}

		_, l := g.ssa(ctx, n.Children[0], false)
		_, r := g.ssa(ctx, n.Children[1], false)
		_, out := g.ssa(ctx, n, true)

		if token.Kind(n.Kind) == token.PlusOp {
			g.emit(ctx, ir.Add{Out: g.def(out), L: g.use(l), R: g.use(r)})
		} else {
			g.emit(ctx, ir.Sub{Out: g.def(out), L: g.use(l), R: g.use(r)})
		}
	case token.AssignOp:
		if len(n.Children) != 2 {
			return errors.New("%v node %d: want target and value, got %d children", n.Kind, n.ID, len(n.Children))
		}

		name, val := n.Children[0], n.Children[1]

		err = g.lower(ctx, val)
		if err != nil {
			return errors.Wrap(err, "assign %v", name.Text)
		}

		// take the value before the target is redefined: x := x
		_, v := g.ssa(ctx, val, false)

		_, zero := g.ssa(ctx, name, true)
		g.emit(ctx, ir.Const{Out: g.def(zero), Decl: name.Text})

		_, r := g.ssa(ctx, name, true)
		g.emit(ctx, ir.Add{Out: g.def(r), L: zero, R: g.use(v)})

		g.emit(ctx, ir.Sep{})
	default:
		for _, ch := range n.Children {
			err = g.lower(ctx, ch)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// ssa returns the register for the node's key. A new register is allocated
// if the key is unknown (first is true then) or if force is set.
func (g *Generator) ssa(ctx context.Context, n *tree.Node, force bool) (first bool, r ir.Reg) {
	k := KeyOf(n)

	r, ok := g.vals[k]
	if !ok || force {
		r = g.next
		g.next++

		g.vals[k] = r
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("gen_ssa") {
		tr.Printw("ssa", "key", k, "force", force, "first", !ok, "reg", r, "from", loc.Caller(1))
	}

	return !ok, r
}

func (g *Generator) def(r ir.Reg) ir.Reg {
	g.defined.Set(r)

	return r
}

func (g *Generator) use(r ir.Reg) ir.Reg {
	if !g.defined.IsSet(r) {
		g.undef.Set(r)
	}

	return r
}

func (g *Generator) emit(ctx context.Context, x any) {
	if tr := tlog.SpanFromContext(ctx); tr.If("gen_emit") {
		tr.Printw("emit", "i", len(g.f.Code), "typ", tlog.NextAsType, x, "instr", x)
	}

	g.f.Emit(x)
}

func literal(n *tree.Node) (int64, error) {
	v, err := strconv.ParseInt(n.Text, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "literal %q", n.Text)
	}

	return v, nil
}

func (k Key) String() string {
	if k.Kind == ByIdentityKey {
		return "#" + strconv.FormatUint(uint64(k.ID), 10)
	}

	return k.Name
}

func (k Key) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, k.String())
}
