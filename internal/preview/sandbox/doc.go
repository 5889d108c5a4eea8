// Package sandbox provides an isolated JavaScript runtime for inspecting
// stripped project code.
//
// The runtime wraps goja with the same controls the service applies to the
// generated preview document: no host globals, execution timeouts via
// interrupt, and a bounded console buffer. Its main consumer is root
// component discovery, which evaluates a stripped bundle with stub
// framework bindings and searches the resulting globals for a mountable
// component. goja cannot parse JSX, so discovery falls back to a lexical
// declaration scan when evaluation fails; the generated document carries
// the authoritative in-browser search either way.
package sandbox
