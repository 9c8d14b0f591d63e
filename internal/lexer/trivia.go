package lexer

import "arrowc/internal/diag"

// skipTrivia consumes whitespace and comments, remembering line breaks.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch ch := lx.cursor.Peek(); {
		case ch == '\n':
			lx.newline = true
			lx.cursor.Bump()
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			lx.cursor.Bump()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				b := lx.cursor.Bump()
				if b == '\n' {
					lx.newline = true
				}
				if b == '*' && lx.cursor.Eat('/') {
					closed = true
					break
				}
			}
			if !closed {
				lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			}
		default:
			return
		}
	}
}
