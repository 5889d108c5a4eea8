package strip

import "regexp"

// Rule is one rewrite in the pipeline.
type Rule struct {
	Name string
	re   *regexp.Regexp
	repl string
}

// Apply runs the single rewrite over src.
func (r Rule) Apply(src string) string {
	return r.re.ReplaceAllString(src, r.repl)
}

// pipeline is the ordered rewrite list. Order matters: imports and export
// modifiers go first so the type rules see plain declarations, and the
// annotation rule runs after whole type declarations are gone.
var pipeline = []Rule{
	{
		Name: "imports",
		re:   regexp.MustCompile(`(?m)^[ \t]*import\s+(?:type\s+)?(?:[\w$*{},\s]+?from\s+)?['"][^'"]*['"]\s*;?[ \t]*\n?`),
		repl: "",
	},
	{
		Name: "export-default",
		re:   regexp.MustCompile(`export\s+default\s+(function|class|const)\s+`),
		repl: "$1 ",
	},
	{
		Name: "export-modifier",
		re:   regexp.MustCompile(`(?m)^([ \t]*)export\s+(const|function|class|let|var)\s+`),
		repl: "$1$2 ",
	},
	{
		Name: "export-list",
		re:   regexp.MustCompile(`(?m)^[ \t]*export\s*\{[^}]*\}\s*;?[ \t]*\n?`),
		repl: "",
	},
	{
		Name: "generic-call",
		re:   regexp.MustCompile(`([A-Za-z_$][\w$]*)<[^<>()]+>\(`),
		repl: "$1(",
	},
	// Type-only declarations match non-greedily and refuse nested braces:
	// a nested body is left intact rather than half-removed, which keeps
	// brace balance for any input.
	{
		Name: "interface-decl",
		re:   regexp.MustCompile(`\binterface\s+[A-Za-z_$][\w$]*(?:\s+extends\s+[^{\n]+)?\s*\{[^{}]*?\}\n?`),
		repl: "",
	},
	{
		Name: "type-alias",
		re:   regexp.MustCompile(`\btype\s+[A-Za-z_$][\w$]*\s*=\s*[^;{}]*?;\n?`),
		repl: "",
	},
	{
		Name: "type-annotation",
		re:   regexp.MustCompile(`:\s*[A-Za-z_$][\w$.]*(?:\[\])?(?:\s*\|\s*[A-Za-z_$][\w$.]*(?:\[\])?)*([ \t]*[=,;)])`),
		repl: "$1",
	},
	{
		Name: "directive-prologue",
		re:   regexp.MustCompile(`(?m)^[ \t]*['"]use (?:client|server|strict)['"]\s*;?[ \t]*\n?`),
		repl: "",
	},
}

// Pipeline returns the ordered rule list, for per-rule testing.
func Pipeline() []Rule {
	return pipeline
}

// Source runs the full pipeline over one file's text. Total: never fails,
// never returns an error.
func Source(src string) string {
	for _, rule := range pipeline {
		src = rule.Apply(src)
	}
	return src
}
