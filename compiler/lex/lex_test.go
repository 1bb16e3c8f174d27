package lex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmyjacks/microc/compiler/token"
)

func kinds(toks []token.Token) (r []token.Kind) {
	for _, t := range toks {
		r = append(r, t.Kind)
	}

	return r
}

func TestLex(t *testing.T) {
	ctx := context.Background()

	toks, err := Lex(ctx, []byte("BEGIN x := 3 + 4 ; write ( x ) ; END"))
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.Begin, token.ID, token.AssignOp, token.IntLiteral, token.PlusOp, token.IntLiteral, token.Semicolon,
		token.Write, token.LParen, token.ID, token.RParen, token.Semicolon,
		token.End, token.ScanEOF,
	}, kinds(toks))

	assert.Equal(t, "x", toks[1].Text)
	assert.Equal(t, ":=", toks[2].Text)
	assert.Equal(t, "3", toks[3].Text)
	assert.Equal(t, 8, toks[2].Pos)
	assert.Equal(t, "", toks[len(toks)-1].Text)
}

func TestLexKeywordsAndComments(t *testing.T) {
	ctx := context.Background()

	toks, err := Lex(ctx, []byte("begin -- comment\n\tRead(a1, b_2);\nwrite(a1-b_2);\nEnd"))
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.Begin,
		token.Read, token.LParen, token.ID, token.Comma, token.ID, token.RParen, token.Semicolon,
		token.Write, token.LParen, token.ID, token.MinusOp, token.ID, token.RParen, token.Semicolon,
		token.End, token.ScanEOF,
	}, kinds(toks))

	assert.Equal(t, "b_2", toks[5].Text)
}

func TestLexError(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		src  string
		want []token.Kind
		pos  int
	}{
		{src: "begin x := 1 * 2", want: []token.Kind{token.Begin, token.ID, token.AssignOp, token.IntLiteral, token.ScanEOF}, pos: 13},
		{src: "x : 1", want: []token.Kind{token.ID, token.ScanEOF}, pos: 2},
		{src: "#", want: []token.Kind{token.ScanEOF}, pos: 0},
	} {
		t.Run(tc.src, func(t *testing.T) {
			toks, err := Lex(ctx, []byte(tc.src))
			require.Error(t, err)

			var lerr *Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tc.pos, lerr.Pos)

			assert.Equal(t, tc.want, kinds(toks))
		})
	}
}

func TestLexErrorText(t *testing.T) {
	_, err := Lex(context.Background(), []byte("begin x := 1 * 2"))
	require.Error(t, err)

	assert.Equal(t, `unexpected character '*' at pos 13`, err.Error())
}

func TestLexEmpty(t *testing.T) {
	toks, err := Lex(context.Background(), []byte(" \n -- nothing"))
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{token.ScanEOF}, kinds(toks))
}
