package lexer

import (
	"golang.org/x/text/unicode/norm"

	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// scanIdentOrKeyword reads an identifier. Non-ASCII identifiers are NFC
// normalized so that visually identical names bind to the same variable.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 {
			break
		}
		first := lx.cursor.Off == uint32(start)
		if (first && !isIdentStartRune(r)) || (!first && !isIdentContinueRune(r)) {
			break
		}
		ascii = false
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	if sp.Empty() {
		lx.bumpRune()
		sp = lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, "unexpected character "+string(lx.file.Content[sp.Start:sp.End]))
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	text := string(lx.file.Content[sp.Start:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
