// Package trace records what the compiler did and in what order.
//
// A Tracer receives Events: span begin/end pairs created with Begin/End and
// instant Points. Each event has a Scope (driver, phase, member, literal,
// node) and the tracer's Level filters scopes:
//
//	phase  -> driver, phase
//	detail -> + member, literal
//	debug  -> everything
//
// Sinks: StreamTracer (text or NDJSON), RingTracer (last N events, dumped on
// panic), LogTracer (commonlog), combined by MultiTracer. The active tracer
// travels in a context.Context (WithTracer / FromContext).
package trace
