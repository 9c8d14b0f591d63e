package token

import "arrowc/internal/source"

// Token is one lexeme. Text is the normalized source text (NFC for
// identifiers, unescaped contents for strings).
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// NewlineBefore is set when a line break separates this token from the
	// previous one; the parser uses it for semicolon insertion.
	NewlineBefore bool
}

func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, LongLit, FloatLit, DoubleLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	}
	return false
}

// IsIdentLike accepts identifiers and contextual keywords.
func (t Token) IsIdentLike() bool {
	return t.Kind == Ident || t.Kind.IsContextual()
}
