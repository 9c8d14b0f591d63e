package token

// Kind enumerates every token the lexer produces.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit    // 42, 0x2A, 5000000000
	LongLit   // 42L
	FloatLit  // 1.5f
	DoubleLit // 1.5, 1e3
	StringLit // "..." or '...'

	// keywords
	KwConst
	KwLet
	KwVar
	KwFunction
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwFor
	KwOf
	KwBreak
	KwContinue
	KwTrue
	KwFalse
	KwNull
	KwThis
	KwNew
	KwClass
	KwInterface
	KwImplements
	KwNamespace
	KwExport
	KwImport
	KwFrom
	KwAs

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Ellipsis // ...
	Semicolon
	Colon
	Question
	FatArrow // =>

	// operators
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	Plus
	Minus
	Star
	Slash
	Percent
	PlusPlus
	MinusMinus
	EqEq     // ==
	EqEqEq   // ===
	BangEq   // !=
	BangEqEq // !==
	Lt
	LtEq
	Gt
	GtEq
	Shl  // <<
	Shr  // >>
	UShr // >>>
	Amp
	Pipe
	Caret
	Tilde
	Bang
	AndAnd
	OrOr
)

var kindNames = [...]string{
	Invalid:       "invalid",
	EOF:           "end of file",
	Ident:         "identifier",
	IntLit:        "int literal",
	LongLit:       "long literal",
	FloatLit:      "float literal",
	DoubleLit:     "double literal",
	StringLit:     "string literal",
	KwConst:       "const",
	KwLet:         "let",
	KwVar:         "var",
	KwFunction:    "function",
	KwReturn:      "return",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwFor:         "for",
	KwOf:          "of",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwTrue:        "true",
	KwFalse:       "false",
	KwNull:        "null",
	KwThis:        "this",
	KwNew:         "new",
	KwClass:       "class",
	KwInterface:   "interface",
	KwImplements:  "implements",
	KwNamespace:   "namespace",
	KwExport:      "export",
	KwImport:      "import",
	KwFrom:        "from",
	KwAs:          "as",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Comma:         ",",
	Dot:           ".",
	Ellipsis:      "...",
	Semicolon:     ";",
	Colon:         ":",
	Question:      "?",
	FatArrow:      "=>",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	PlusPlus:      "++",
	MinusMinus:    "--",
	EqEq:          "==",
	EqEqEq:        "===",
	BangEq:        "!=",
	BangEqEq:      "!==",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Shl:           "<<",
	Shr:           ">>",
	UShr:          ">>>",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	Bang:          "!",
	AndAnd:        "&&",
	OrOr:          "||",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsAssignOp reports whether k is = or a compound assignment.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign:
		return true
	}
	return false
}

// CompoundBase maps "+=" to "+" and so on; Invalid for anything else.
func (k Kind) CompoundBase() Kind {
	switch k {
	case PlusAssign:
		return Plus
	case MinusAssign:
		return Minus
	case StarAssign:
		return Star
	case SlashAssign:
		return Slash
	case PercentAssign:
		return Percent
	}
	return Invalid
}
