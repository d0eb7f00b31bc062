// Package observe provides observability for cacheable function calls.
//
// It is a pure instrumentation library: no execution, no storage I/O
// beyond exporter setup. The cache controller reports hit/miss/write
// events through an Events recorder; an Observer wires the recorder to
// OpenTelemetry tracing and metrics plus a structured JSON logger.
// Observability is opt-in: a nil *Events records nothing.
package observe
