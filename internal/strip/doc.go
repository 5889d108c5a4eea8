// Package strip rewrites a single source file's text so the in-browser
// runtime compiler can execute it: module import/export syntax and
// type-system constructs are removed lexically.
//
// This is a heuristic, order-sensitive pipeline of pure text-to-text
// rewrites, not a parser. Each rule applies to the output of the previous
// one and is total: no rule can fail, so Source always returns a string.
// The annotation rule is intentionally narrow (a colon-annotation is only
// removed immediately before '=', ',', ';' or ')') to avoid mangling
// object literals and ternaries; broadening it would strip valid runtime
// code.
package strip
