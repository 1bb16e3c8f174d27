package lex

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/bmyjacks/microc/compiler/token"
)

type (
	// Error is a lexical error. Lexing stops at the first one.
	Error struct {
		Pos  int
		Char byte
	}
)

var keywords = map[string]token.Kind{
	"begin": token.Begin,
	"end":   token.End,
	"read":  token.Read,
	"write": token.Write,
}

// Lex splits text into tokens. The result always ends with a single SCANEOF
// token, also when lexing stopped early on error.
func Lex(ctx context.Context, text []byte) (toks []token.Token, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lex", "size", len(text))
	defer tr.Finish("err", &err)

	var tk token.Token

	for i := 0; ; {
		tk, i, err = next(ctx, text, i)
		if err != nil {
			toks = append(toks, token.EOF(i))

			return toks, err
		}

		toks = append(toks, tk)

		if tk.Kind == token.ScanEOF {
			return toks, nil
		}
	}
}

func next(ctx context.Context, b []byte, st int) (tk token.Token, i int, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("lex_token") {
		defer func(st int) {
			tr.Printw("next token", "st", st, "tk", tk, "i", i, "err", err, "from", loc.Callers(1, 2))
		}(st)
	}

	st = skipSpaces(b, st)
	i = st

	if i == len(b) {
		return token.EOF(i), i, nil
	}

	tok := func(k token.Kind, end int) (token.Token, int, error) {
		return token.Token{Kind: k, Text: string(b[st:end]), Pos: st}, end, nil
	}

	switch c := b[i]; c {
	case '(':
		return tok(token.LParen, i+1)
	case ')':
		return tok(token.RParen, i+1)
	case ',':
		return tok(token.Comma, i+1)
	case ';':
		return tok(token.Semicolon, i+1)
	case '+':
		return tok(token.PlusOp, i+1)
	case '-':
		return tok(token.MinusOp, i+1)
	case ':':
		if i+1 < len(b) && b[i+1] == '=' {
			return tok(token.AssignOp, i+2)
		}

		return token.Token{}, i, &Error{Pos: i, Char: c}
	}

	switch c := b[i]; {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		e := skipIdent(b, i)

		if k, ok := keywords[strings.ToLower(string(b[i:e]))]; ok {
			return tok(k, e)
		}

		return tok(token.ID, e)
	case c >= '0' && c <= '9':
		return tok(token.IntLiteral, skipNum(b, i))
	default:
		return token.Token{}, i, &Error{Pos: i, Char: c}
	}
}

// skipSpaces skips whitespace and -- comments.
func skipSpaces(b []byte, i int) int {
	for i < len(b) {
		switch {
		case b[i] == ' ', b[i] == '\t', b[i] == '\n', b[i] == '\r':
			i++
		case b[i] == '-' && i+1 < len(b) && b[i+1] == '-':
			i = skipLine(b, i)
		default:
			return i
		}
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (b[i] >= 'a' && b[i] <= 'z' || b[i] >= 'A' && b[i] <= 'Z' || b[i] >= '0' && b[i] <= '9' || b[i] == '_') {
		i++
	}

	return i
}

func skipNum(b []byte, i int) int {
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	return i
}

func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}

func (e *Error) Error() string {
	return fmt.Sprintf("unexpected character %q at pos %d", e.Char, e.Pos)
}
