package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bmyjacks/microc/compiler/gen"
	"github.com/bmyjacks/microc/compiler/ir"
	"github.com/bmyjacks/microc/compiler/lex"
	"github.com/bmyjacks/microc/compiler/parse"
	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

type (
	Result struct {
		Tokens []token.Token

		// LexErr is set when lexing stopped early.
		// The rest of the pipeline runs on the tokens read so far.
		LexErr error

		CST *tree.Node
		AST *tree.Node

		// Diagnostics are grammar mismatches of the AST pass.
		// The CST pass sees the same tokens and finds the same ones.
		Diagnostics []parse.UnexpectedError

		Module    *ir.Module
		Undefined []ir.Reg

		IR []byte
	}
)

func CompileFile(ctx context.Context, name string) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

func Compile(ctx context.Context, name string, text []byte) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	res = &Result{}

	res.Tokens, res.LexErr = lex.Lex(ctx, text)
	if res.LexErr != nil {
		tr.Printw("lexing stopped", "err", res.LexErr, "tokens", len(res.Tokens))
	}

	p := parse.New(res.Tokens)

	res.CST = p.CST(ctx)
	res.AST = p.AST(ctx)
	res.Diagnostics = p.Diagnostics()

	if tr.If("dump_ast") {
		tr.Printw("abstract syntax tree", "ast", res.AST)
	}

	g := gen.New()

	res.Module, err = g.Generate(ctx, res.AST)
	if err != nil {
		return res, errors.Wrap(err, "generate")
	}

	res.Undefined = g.Undefined()

	res.IR, err = res.Module.Text()
	if err != nil {
		return res, errors.Wrap(err, "render")
	}

	return res, nil
}
