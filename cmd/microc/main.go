package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bmyjacks/microc/compiler"
	"github.com/bmyjacks/microc/compiler/format"
	"github.com/bmyjacks/microc/compiler/lex"
	"github.com/bmyjacks/microc/compiler/parse"
	"github.com/bmyjacks/microc/compiler/token"
	"github.com/bmyjacks/microc/compiler/tree"
)

const defaultInput = "test.m"

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile Micro source to MLIR",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "a.mlir", "output file"),
			cli.NewFlag("cst", "cst.dot", "concrete syntax tree graph (empty to skip)"),
			cli.NewFlag("ast", "ast.dot", "abstract syntax tree graph (empty to skip)"),
			cli.NewFlag("strict", false, "fail on lexical errors and grammar mismatches"),
		},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print tokens",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	treeCmd := &cli.Command{
		Name:        "tree",
		Description: "print syntax tree as a dot graph",
		Action:      treeAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("kind", "ast", "tree kind: cst or ast"),
		},
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print formatted source",
		Action:      fmtAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "microc",
		Description: "microc is a compiler for the Micro language",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			tokensCmd,
			treeCmd,
			fmtCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	name, err := inputFile(c.Args)
	if err != nil {
		return err
	}

	res, err := compiler.CompileFile(ctx, name)
	if err != nil {
		return errors.Wrap(err, "compile %v", name)
	}

	if res.LexErr != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", name, res.LexErr)
	}

	if c.Bool("strict") {
		if res.LexErr != nil {
			return errors.Wrap(res.LexErr, "%v", name)
		}

		for _, d := range res.Diagnostics {
			fmt.Fprintf(os.Stderr, "%v: %v\n", name, d)
		}

		if len(res.Diagnostics) != 0 {
			return errors.New("%v: %d grammar mismatches", name, len(res.Diagnostics))
		}
	}

	err = writeFile(c.String("cst"), res.CST.AppendDot(nil, tree.LabelKind))
	if err != nil {
		return errors.Wrap(err, "cst")
	}

	err = writeFile(c.String("ast"), res.AST.AppendDot(nil, tree.LabelText))
	if err != nil {
		return errors.Wrap(err, "ast")
	}

	err = writeFile(c.String("output"), res.IR)
	if err != nil {
		return errors.Wrap(err, "output")
	}

	return nil
}

func tokensAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return eachFile(ctx, c.Args, func(ctx context.Context, name string, toks []token.Token) error {
		for _, t := range toks {
			fmt.Printf("%-10v %s\n", t.Kind, t.Text)
		}

		return nil
	})
}

func treeAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	kind := c.String("kind")
	if kind != "ast" && kind != "cst" {
		return errors.New("unknown tree kind: %q", kind)
	}

	return eachFile(ctx, c.Args, func(ctx context.Context, name string, toks []token.Token) error {
		p := parse.New(toks)

		if kind == "cst" {
			fmt.Printf("%s", p.CST(ctx).AppendDot(nil, tree.LabelKind))
		} else {
			fmt.Printf("%s", p.AST(ctx).AppendDot(nil, tree.LabelText))
		}

		return nil
	})
}

func fmtAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return eachFile(ctx, c.Args, func(ctx context.Context, name string, toks []token.Token) error {
		b, err := format.Format(ctx, nil, parse.New(toks).AST(ctx))
		if err != nil {
			return errors.Wrap(err, "format")
		}

		fmt.Printf("%s", b)

		return nil
	})
}

// inputFile picks the single compile input. Outputs are named by flags,
// so several inputs would overwrite each other.
func inputFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return defaultInput, nil
	case 1:
		return args[0], nil
	default:
		return "", errors.New("one input file expected, got %d", len(args))
	}
}

func eachFile(ctx context.Context, args []string, f func(ctx context.Context, name string, toks []token.Token) error) error {
	if len(args) == 0 {
		args = []string{defaultInput}
	}

	for _, a := range args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read file")
		}

		toks, err := lex.Lex(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v: %v\n", a, err)
		}

		err = f(ctx, a, toks)
		if err != nil {
			return errors.Wrap(err, "%v", a)
		}
	}

	return nil
}

func writeFile(name string, data []byte) error {
	switch name {
	case "":
		return nil
	case "-":
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(name, data, 0o644)
}
