// Package diag defines the diagnostic model shared by all compiler phases.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// name, a short Message, the Primary span and optional Notes pointing at
// related locations (e.g. "conflicting return here").
//
// Phases never return the first problem they see. They emit through a
// Reporter, usually a BagReporter over the compilation unit's Bag, and the
// driver reports every collected diagnostic at the end. ReportBuilder offers
// the fluent form:
//
//	diag.ReportError(r, diag.ClosureContractMismatch, span, msg).
//		WithNote(declSpan, "declared here").
//		Emit()
//
// Codes are grouped by phase: 1xxx lexer, 2xxx parser, 3xxx names,
// 4xxx closure conversion and call contracts, 5xxx types, 6xxx runtime
// faults, 7xxx I/O.
//
// Rendering lives in internal/diagfmt.
package diag
