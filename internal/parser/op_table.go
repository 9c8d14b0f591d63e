package parser

import "arrowc/internal/token"

// Binary operator precedence; higher binds tighter.
const (
	precLowest         = 0
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precBitwiseOr      = 3  // |
	precBitwiseXor     = 4  // ^
	precBitwiseAnd     = 5  // &
	precEquality       = 6  // == != === !==
	precComparison     = 7  // < <= > >= as
	precShift          = 8  // << >> >>>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.KwAs:
		return precComparison
	case token.Shl, token.Shr, token.UShr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return -1
}
