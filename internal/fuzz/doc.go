// Package fuzz holds Go fuzz harnesses for the front half of the compiler:
// source bytes through the lexer and parser, and whole units through
// closure conversion. They guard against panics, hangs and closures that
// violate their structural invariants on arbitrary input.
//
// Seeds come from testdata/*.arrow at the repository root plus a handful of
// inline snippets.
package fuzz
