package lexer

import (
	"strings"

	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// scanNumber reads decimal or hex integers and decimal floats.
// Suffixes: L (long), f (float), d (double). Underscores separate digits.
// Token.Text holds the digits without underscores and suffix.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	var digits strings.Builder

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits.WriteString("0x")
		n := 0
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			if b := lx.cursor.Bump(); b != '_' {
				digits.WriteByte(b)
				n++
			}
		}
		if n == 0 {
			lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "hex literal has no digits")
		}
	} else {
		lx.readDigits(&digits)
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			kind = token.DoubleLit
			digits.WriteByte(lx.cursor.Bump())
			lx.readDigits(&digits)
		}
		if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
			next := lx.cursor.PeekAt(1)
			if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
				kind = token.DoubleLit
				digits.WriteByte(lx.cursor.Bump())
				if next == '+' || next == '-' {
					digits.WriteByte(lx.cursor.Bump())
				}
				lx.readDigits(&digits)
			}
		}
	}

	switch lx.cursor.Peek() {
	case 'L', 'l':
		lx.cursor.Bump()
		if kind != token.IntLit {
			lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "long suffix on a fractional literal")
		}
		kind = token.LongLit
	case 'f', 'F':
		lx.cursor.Bump()
		kind = token.FloatLit
	case 'd', 'D':
		lx.cursor.Bump()
		kind = token.DoubleLit
	}
	sp := lx.cursor.SpanFrom(start)
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "invalid numeric literal")
	}
	return token.Token{Kind: kind, Span: sp, Text: digits.String()}
}

func (lx *Lexer) readDigits(sb *strings.Builder) {
	for isDec(lx.cursor.Peek()) || (lx.cursor.Peek() == '_' && isDec(lx.cursor.PeekAt(1))) {
		if b := lx.cursor.Bump(); b != '_' {
			sb.WriteByte(b)
		}
	}
}
