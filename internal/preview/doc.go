// Package preview assembles a project's files into one self-contained
// executable HTML document.
//
// The builder classifies files into stylesheets and scripts, runs each
// script through the strip pipeline, and wraps the result in a fixed
// runtime scaffold: framework hooks and base classes bound by bare name,
// centralized error capture, an error boundary around the mounted root
// component, and an ordered root-component search with a diagnostic panel
// fallback. The builder's contract is total: it always returns a renderable
// document, never raises. A construction failure yields a minimal document
// whose body is the error's description.
package preview
