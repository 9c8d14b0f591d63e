package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// scanString reads a '...' or "..." literal; Text is the unescaped value.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.StringLit, Span: sp, Text: sb.String()}
		}
		b := lx.cursor.Bump()
		if b == quote {
			break
		}
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		escStart := lx.cursor.Mark() - 1
		switch e := lx.cursor.Bump(); e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(e)
		case 'u':
			hex := make([]byte, 0, 4)
			for range 4 {
				if !isHex(lx.cursor.Peek()) {
					break
				}
				hex = append(hex, lx.cursor.Bump())
			}
			v, err := strconv.ParseUint(string(hex), 16, 32)
			if len(hex) != 4 || err != nil || !utf8.ValidRune(rune(v)) {
				lx.report(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid \\u escape")
				continue
			}
			sb.WriteRune(rune(v))
		default:
			lx.report(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence")
			sb.WriteByte(e)
		}
	}
	return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
}
