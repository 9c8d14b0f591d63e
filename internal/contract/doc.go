// Package contract owns the call contracts a function literal can
// implement: the built-in catalog, interfaces declared by the unit,
// contracts synthesized for shapes the catalog lacks, and the resolver
// that picks one for a literal.
package contract
