package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmyjacks/microc/compiler/lex"
	"github.com/bmyjacks/microc/compiler/parse"
	"github.com/bmyjacks/microc/compiler/tree"
)

func ast(t *testing.T, src string) *tree.Node {
	t.Helper()

	toks, err := lex.Lex(context.Background(), []byte(src))
	require.NoError(t, err)

	return parse.New(toks).AST(context.Background())
}

func TestFormat(t *testing.T) {
	ctx := context.Background()

	b, err := Format(ctx, nil, ast(t, "BEGIN read(a,b); c:=(a-b)-1+a; write(c,5,(((a)))); END"))
	require.NoError(t, err)

	assert.Equal(t, `begin
	read(a, b);
	c := (a - b) - 1 + a;
	write(c, 5, a);
end
`, string(b))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, src := range []string{
		"begin x := a - b - c; end",
		"begin x := (a - b) - c; end",
		"begin x := ((a + 1) - (b - 2)) + (3 - c); write(x, x - 1); end",
		"begin read(a); read(b, c, d); write(a + b + c + d); end",
	} {
		t.Run(src, func(t *testing.T) {
			x := ast(t, src)

			b, err := Format(ctx, nil, x)
			require.NoError(t, err)

			y := ast(t, string(b))

			assert.Equal(t, x.String(), y.String(), "formatted:\n%s", b)
		})
	}
}

func TestFormatUnsupported(t *testing.T) {
	ctx := context.Background()

	var ids tree.IDs

	_, err := Format(ctx, nil, ids.New("<start>", "START"))
	assert.Error(t, err)

	_, err = Format(ctx, nil, ast(t, "begin x := 1 + ; end"))
	assert.Error(t, err)
}
