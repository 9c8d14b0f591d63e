package lexer

import (
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// operator table, longest first within each leading byte
var ops = map[byte][]struct {
	text string
	kind token.Kind
}{
	'(': {{"(", token.LParen}},
	')': {{")", token.RParen}},
	'{': {{"{", token.LBrace}},
	'}': {{"}", token.RBrace}},
	'[': {{"[", token.LBracket}},
	']': {{"]", token.RBracket}},
	',': {{",", token.Comma}},
	';': {{";", token.Semicolon}},
	':': {{":", token.Colon}},
	'?': {{"?", token.Question}},
	'~': {{"~", token.Tilde}},
	'^': {{"^", token.Caret}},
	'.': {{"...", token.Ellipsis}, {".", token.Dot}},
	'=': {{"===", token.EqEqEq}, {"==", token.EqEq}, {"=>", token.FatArrow}, {"=", token.Assign}},
	'!': {{"!==", token.BangEqEq}, {"!=", token.BangEq}, {"!", token.Bang}},
	'+': {{"++", token.PlusPlus}, {"+=", token.PlusAssign}, {"+", token.Plus}},
	'-': {{"--", token.MinusMinus}, {"-=", token.MinusAssign}, {"-", token.Minus}},
	'*': {{"*=", token.StarAssign}, {"*", token.Star}},
	'/': {{"/=", token.SlashAssign}, {"/", token.Slash}},
	'%': {{"%=", token.PercentAssign}, {"%", token.Percent}},
	'<': {{"<<", token.Shl}, {"<=", token.LtEq}, {"<", token.Lt}},
	'>': {{">>>", token.UShr}, {">>", token.Shr}, {">=", token.GtEq}, {">", token.Gt}},
	'&': {{"&&", token.AndAnd}, {"&", token.Amp}},
	'|': {{"||", token.OrOr}, {"|", token.Pipe}},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	rest := lx.file.Content[lx.cursor.Off:lx.cursor.Limit]
	for _, op := range ops[rest[0]] {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			for range len(op.text) {
				lx.cursor.Bump()
			}
			return token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(start), Text: op.text}
		}
	}
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownChar, sp, "unexpected character "+string(lx.file.Content[sp.Start:sp.End]))
	return token.Token{Kind: token.Invalid, Span: sp}
}
