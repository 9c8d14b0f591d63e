package lexer

import (
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/token"
)

type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	newline  bool // a line break was skipped before the next token
}

// New creates a lexer; r may be nil, errors are then dropped.
func New(file *source.File, r diag.Reporter) *Lexer {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Lexer{file: file, cursor: NewCursor(file), reporter: r}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()
	nl := lx.newline
	lx.newline = false

	var tok token.Token
	if lx.cursor.EOF() {
		tok = token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(lx.cursor.Mark())}
	} else {
		tok = lx.scan()
	}
	tok.NewlineBefore = nl
	return tok
}

// All lexes the whole file, EOF included.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) scan() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(lx.reporter, code, sp, msg).Emit()
}
