package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmyjacks/microc/compiler/ir"
	"github.com/bmyjacks/microc/compiler/lex"
	"github.com/bmyjacks/microc/compiler/parse"
	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

const (
	header = "module {\n  func.func private @read() -> i32\n  func.func private @print(i32)\n\n  func.func @main() {\n"
	footer = "    return\n  }\n}\n"
)

func ast(t *testing.T, src string) *tree.Node {
	t.Helper()

	toks, err := lex.Lex(context.Background(), []byte(src))
	require.NoError(t, err)

	return parse.New(toks).AST(context.Background())
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	b, err := Text(ctx, ast(t, "BEGIN x := 3 + 4 ; write ( x ) ; END"))
	require.NoError(t, err)

	assert.Equal(t, header+
		"    %0 = arith.constant 3 : i32\n"+
		"    %1 = arith.constant 4 : i32\n"+
		"    %2 = arith.addi %0, %1 : i32\n"+
		"    %3 = arith.constant 0 : i32 // Declare x\n"+
		"    %4 = arith.addi %3, %2 : i32\n"+
		"\n"+
		"    call @print(%4) : (i32) -> ()\n"+
		footer, string(b))
}

func TestProgram(t *testing.T) {
	ctx := context.Background()

	b, err := Text(ctx, ast(t, `begin
	read(a, b);
	c := a - b - 1;
	write(c, 5, a + (b - c));
end`))
	require.NoError(t, err)

	assert.Equal(t, header+
		"    %0 = arith.constant 0 : i32 // Declare a\n"+
		"    %1 = call @read() : () -> i32\n"+
		"    %2 = arith.constant 0 : i32 // Declare b\n"+
		"    %3 = call @read() : () -> i32\n"+
		"\n"+
		"    %4 = arith.constant 1 : i32\n"+
		"    %5 = arith.subi %3, %4 : i32\n"+
		"    %6 = arith.subi %1, %5 : i32\n"+
		"    %7 = arith.constant 0 : i32 // Declare c\n"+
		"    %8 = arith.addi %7, %6 : i32\n"+
		"\n"+
		"    call @print(%8) : (i32) -> ()\n"+
		"    %9 = arith.constant 5 : i32\n"+
		"    call @print(%9) : (i32) -> ()\n"+
		"    %10 = arith.subi %3, %8 : i32\n"+
		"    %11 = arith.addi %1, %10 : i32\n"+
		"    call @print(%11) : (i32) -> ()\n"+
		footer, string(b))
}

func TestReadTwice(t *testing.T) {
	ctx := context.Background()

	b, err := Text(ctx, ast(t, "begin read(x, x); end"))
	require.NoError(t, err)

	assert.Equal(t, header+
		"    %0 = arith.constant 0 : i32 // Declare x\n"+
		"    %1 = call @read() : () -> i32\n"+
		"    %2 = call @read() : () -> i32\n"+
		"\n"+
		footer, string(b))
}

func TestReassign(t *testing.T) {
	ctx := context.Background()

	b, err := Text(ctx, ast(t, "begin x := 1; x := x + 1; write(x); end"))
	require.NoError(t, err)

	assert.Equal(t, header+
		"    %0 = arith.constant 1 : i32\n"+
		"    %1 = arith.constant 0 : i32 // Declare x\n"+
		"    %2 = arith.addi %1, %0 : i32\n"+
		"\n"+
		"    %3 = arith.constant 1 : i32\n"+
		"    %4 = arith.addi %2, %3 : i32\n"+
		"    %5 = arith.constant 0 : i32 // Declare x\n"+
		"    %6 = arith.addi %5, %4 : i32\n"+
		"\n"+
		"    call @print(%6) : (i32) -> ()\n"+
		footer, string(b))
}

func TestSelfAssign(t *testing.T) {
	ctx := context.Background()

	b, err := Text(ctx, ast(t, "begin read(x); x := x; write(x); end"))
	require.NoError(t, err)

	assert.Equal(t, header+
		"    %0 = arith.constant 0 : i32 // Declare x\n"+
		"    %1 = call @read() : () -> i32\n"+
		"\n"+
		"    %2 = arith.constant 0 : i32 // Declare x\n"+
		"    %3 = arith.addi %2, %1 : i32\n"+
		"\n"+
		"    call @print(%3) : (i32) -> ()\n"+
		footer, string(b))
}

func TestDeterministic(t *testing.T) {
	ctx := context.Background()

	x := ast(t, "begin read(a); b := a - (1 + a) - 2; write(b, a + b, 7); end")

	b1, err := Text(ctx, x)
	require.NoError(t, err)

	b2, err := Text(ctx, x)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestUndefined(t *testing.T) {
	ctx := context.Background()

	g := New()

	m, err := g.Generate(ctx, ast(t, "begin write(y); z := y + 1; end"))
	require.NoError(t, err)

	b, err := m.Text()
	require.NoError(t, err)

	assert.Equal(t, header+
		"    call @print(%0) : (i32) -> ()\n"+
		"    %1 = arith.constant 1 : i32\n"+
		"    %2 = arith.addi %0, %1 : i32\n"+
		"    %3 = arith.constant 0 : i32 // Declare z\n"+
		"    %4 = arith.addi %3, %2 : i32\n"+
		"\n"+
		footer, string(b))

	assert.Equal(t, []ir.Reg{0}, g.Undefined())
}

func TestKeys(t *testing.T) {
	ctx := context.Background()

	var ids tree.IDs

	for i := 0; i < 4; i++ {
		ids.New("pad", "")
	}

	op := ids.New(string(token.PlusOp), "+")
	lit := ids.New(string(token.IntLiteral), "4")

	require.Equal(t, tree.ID(4), op.ID)

	assert.Equal(t, ByIdentity(4), KeyOf(op))
	assert.Equal(t, ByName("4"), KeyOf(lit))
	assert.NotEqual(t, KeyOf(op), KeyOf(lit))

	g := New()
	g.f = &ir.Func{}

	first, r0 := g.ssa(ctx, op, false)
	assert.True(t, first)

	first, r1 := g.ssa(ctx, lit, false)
	assert.True(t, first, "literal must not hit the operator's entry")
	assert.NotEqual(t, r0, r1)

	first, r := g.ssa(ctx, op, false)
	assert.False(t, first)
	assert.Equal(t, r0, r)

	_, r = g.ssa(ctx, op, true)
	assert.Equal(t, ir.Reg(2), r)

	_, r = g.ssa(ctx, op, false)
	assert.Equal(t, ir.Reg(2), r)

	assert.Equal(t, "#4", KeyOf(op).String())
	assert.Equal(t, "4", KeyOf(lit).String())
}

func TestMalformed(t *testing.T) {
	ctx := context.Background()

	for _, src := range []string{
		"begin x := 1 + ; end",
		"begin x := ; end",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := New().Generate(ctx, ast(t, src))
			assert.Error(t, err)
		})
	}

	// missing punctuation is fine
	b, err := Text(ctx, ast(t, "begin write(1; end"))
	require.NoError(t, err)

	assert.Equal(t, header+
		"    %0 = arith.constant 1 : i32\n"+
		"    call @print(%0) : (i32) -> ()\n"+
		footer, string(b))
}

func TestLiteralRange(t *testing.T) {
	ctx := context.Background()

	_, err := Text(ctx, ast(t, "begin write(2147483647); end"))
	assert.NoError(t, err)

	_, err = Text(ctx, ast(t, "begin write(2147483648); end"))
	assert.Error(t, err)
}
