package ir

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

type (
	// Reg is an SSA value number. Every instruction defines a new one.
	Reg int

	Module struct {
		Externs []Extern
		Funcs   []*Func
	}

	// Extern is an external function declaration taking In i32 arguments
	// and returning Out i32 results.
	Extern struct {
		Name string
		In   int
		Out  int
	}

	Func struct {
		Name string
		Code []any
	}

	Const struct {
		Out   Reg
		Value int64

		Decl string // variable being declared
	}

	Call struct {
		Out  []Reg
		Func string
		In   []Reg
	}

	Add struct {
		Out  Reg
		L, R Reg
	}

	Sub struct {
		Out  Reg
		L, R Reg
	}

	// Sep is an empty line between statements.
	Sep struct{}
)

const (
	ReadFunc  = "read"
	PrintFunc = "print"
)

// NewModule returns a module declaring the runtime functions read and print.
func NewModule() *Module {
	return &Module{
		Externs: []Extern{
			{Name: ReadFunc, Out: 1},
			{Name: PrintFunc, In: 1},
		},
	}
}

func (f *Func) Emit(x any) {
	f.Code = append(f.Code, x)
}

func (m *Module) Text() ([]byte, error) {
	return m.Append(nil)
}

// Append appends the module in MLIR text form.
func (m *Module) Append(b []byte) (_ []byte, err error) {
	b = append(b, "module {\n"...)

	for _, x := range m.Externs {
		b = hfmt.Appendf(b, "  func.func private @%s(%s)", x.Name, types(x.In))

		switch x.Out {
		case 0:
		case 1:
			b = append(b, " -> i32"...)
		default:
			b = hfmt.Appendf(b, " -> (%s)", types(x.Out))
		}

		b = append(b, '\n')
	}

	for _, f := range m.Funcs {
		b = append(b, '\n')

		b, err = f.append(b, 2)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	b = append(b, "}\n"...)

	return b, nil
}

func (f *Func) append(b []byte, d int) (_ []byte, err error) {
	b = app(b, d, "func.func @%s() {\n", f.Name)

	for i, x := range f.Code {
		b, err = appendInstr(b, d+2, x)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}
	}

	b = app(b, d+2, "return\n")
	b = app(b, d, "}\n")

	return b, nil
}

func appendInstr(b []byte, d int, x any) ([]byte, error) {
	switch x := x.(type) {
	case Const:
		b = app(b, d, "%%%d = arith.constant %d : i32", x.Out, x.Value)

		if x.Decl != "" {
			b = hfmt.Appendf(b, " // Declare %s", x.Decl)
		}

		b = append(b, '\n')
	case Call:
		b = app(b, d, "")

		if len(x.Out) != 0 {
			b = appendRegs(b, x.Out)
			b = append(b, " = "...)
		}

		b = append(b, "call @"...)
		b = append(b, x.Func...)
		b = append(b, '(')
		b = appendRegs(b, x.In)
		b = hfmt.Appendf(b, ") : (%s) -> ", types(len(x.In)))

		switch len(x.Out) {
		case 0:
			b = append(b, "()"...)
		case 1:
			b = append(b, "i32"...)
		default:
			b = hfmt.Appendf(b, "(%s)", types(len(x.Out)))
		}

		b = append(b, '\n')
	case Add:
		b = app(b, d, "%%%d = arith.addi %%%d, %%%d : i32\n", x.Out, x.L, x.R)
	case Sub:
		b = app(b, d, "%%%d = arith.subi %%%d, %%%d : i32\n", x.Out, x.L, x.R)
	case Sep:
		b = append(b, '\n')
	default:
		return nil, errors.New("unsupported instruction: %T", x)
	}

	return b, nil
}

func appendRegs(b []byte, l []Reg) []byte {
	for i, r := range l {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = hfmt.Appendf(b, "%%%d", r)
	}

	return b
}

// types lists n i32 types.
func types(n int) string {
	var b []byte

	for i := 0; i < n; i++ {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, "i32"...)
	}

	return string(b)
}

func app(b []byte, d int, f string, args ...any) []byte {
	const spaces = "                                "
	b = append(b, spaces[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}

func (r Reg) String() string {
	return string(hfmt.Appendf(nil, "%%%d", int(r)))
}

func (r Reg) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendFormat(b, "%%%d", int(r))
}
