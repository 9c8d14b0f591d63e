// Package capture finds the free variables of function literals and decides
// how each one is stored in the compiled closure.
//
// Classification runs once over a whole member (Classify) so that every
// literal closing over the same variable agrees on whether it is boxed;
// Analyze then produces the ordered slot layout of a single literal.
package capture
