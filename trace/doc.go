// Package trace records per-request audit events. Every request that
// reaches the trace stage emits exactly one Record, including refused
// and degraded requests. Emission is best effort: a failing emitter is
// logged and never fails the request it describes.
package trace
