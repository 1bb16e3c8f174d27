package token

import (
	"tlog.app/go/tlog/tlwire"
)

type (
	Kind string

	Token struct {
		Kind Kind
		Text string
		Pos  int // byte offset in source
	}

	// Cursor is a resettable view over a finite token list.
	// Reading past the end yields no token instead of failing.
	Cursor struct {
		toks []Token
		i    int
	}
)

const (
	Begin      Kind = "BEGIN"
	End        Kind = "END"
	ID         Kind = "ID"
	IntLiteral Kind = "INTLITERAL"
	AssignOp   Kind = "ASSIGNOP"
	Read       Kind = "READ"
	Write      Kind = "WRITE"
	LParen     Kind = "LPAREN"
	RParen     Kind = "RPAREN"
	Comma      Kind = "COMMA"
	Semicolon  Kind = "SEMICOLON"
	PlusOp     Kind = "PLUSOP"
	MinusOp    Kind = "MINUSOP"
	ScanEOF    Kind = "SCANEOF"
)

func New(k Kind, text string) Token {
	return Token{Kind: k, Text: text}
}

// EOF is the sentinel terminating every token list.
func EOF(pos int) Token {
	return Token{Kind: ScanEOF, Pos: pos}
}

func NewCursor(toks []Token) *Cursor {
	return &Cursor{toks: toks}
}

func (c *Cursor) Peek() (Token, bool) {
	if c.i >= len(c.toks) {
		return Token{}, false
	}

	return c.toks[c.i], true
}

// Is reports whether the next token has one of the kinds.
func (c *Cursor) Is(kinds ...Kind) bool {
	t, ok := c.Peek()
	if !ok {
		return false
	}

	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}

	return false
}

func (c *Cursor) Advance() {
	if c.i < len(c.toks) {
		c.i++
	}
}

func (c *Cursor) Reset() {
	c.i = 0
}

func (c *Cursor) Pos() int {
	return c.i
}

func (c *Cursor) Len() int {
	return len(c.toks)
}

func (t Token) String() string {
	if t.Text == "" {
		return string(t.Kind)
	}

	return string(t.Kind) + " " + t.Text
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)
	b = e.AppendKeyString(b, "kind", string(t.Kind))
	b = e.AppendKeyString(b, "text", t.Text)
	b = e.AppendKeyInt64(b, "pos", int64(t.Pos))

	return b
}
