package token

var keywords = map[string]Kind{
	"const":      KwConst,
	"let":        KwLet,
	"var":        KwVar,
	"function":   KwFunction,
	"return":     KwReturn,
	"if":         KwIf,
	"else":       KwElse,
	"while":      KwWhile,
	"for":        KwFor,
	"of":         KwOf,
	"break":      KwBreak,
	"continue":   KwContinue,
	"true":       KwTrue,
	"false":      KwFalse,
	"null":       KwNull,
	"this":       KwThis,
	"new":        KwNew,
	"class":      KwClass,
	"interface":  KwInterface,
	"implements": KwImplements,
	"namespace":  KwNamespace,
	"export":     KwExport,
	"import":     KwImport,
	"from":       KwFrom,
	"as":         KwAs,
}

// LookupKeyword returns the keyword kind for s. Keywords are case-sensitive.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}

// IsContextual reports keywords that may also be used as identifiers
// (member names, parameter names): of, from, as.
func (k Kind) IsContextual() bool {
	return k == KwOf || k == KwFrom || k == KwAs
}
