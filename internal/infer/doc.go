// Package infer types member bodies and fills in the omitted parameter
// and result types of function literals.
//
// Parameter types come, in order, from the expected contract at the use
// site and from backfill once the contract is chosen. Result types come
// from the expected contract, the expression body's type, or the join of
// the reachable returns of a block body. Literal type parameters erase to
// Object unless an expected contract fills them.
//
// An Engine covers one member. Tentative passes (a recursive literal whose
// result is needed before its body is typed) run muted: they report
// nothing and never synthesize contracts.
package infer
