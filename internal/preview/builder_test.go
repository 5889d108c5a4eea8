package preview

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microapp/previewd/internal/preview/sandbox"
	"github.com/microapp/previewd/internal/shared/types"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	pool, err := sandbox.NewPool(sandbox.DefaultConfig(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return NewBuilder(sandbox.NewDiscoverer(pool), nil)
}

func TestDiagnosticWhenNoScriptFiles(t *testing.T) {
	b := newTestBuilder(t)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "styles.css", Content: "body{margin:0}", Type: "style"},
		{Path: "README.md", Content: "# demo", Type: "doc"},
	}}

	doc := b.Build(context.Background(), project)

	assert.True(t, doc.Diagnostic)
	assert.Empty(t, doc.Failure)
	assert.Contains(t, doc.HTML, "No components found")
	assert.Contains(t, doc.HTML, "styles.css")
	assert.Contains(t, doc.HTML, "README.md")
}

func TestBuildFindsRootComponent(t *testing.T) {
	b := newTestBuilder(t)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "App.tsx", Content: "export default function App(){return null}", Type: "component"},
	}}

	doc := b.Build(context.Background(), project)

	assert.False(t, doc.Diagnostic)
	assert.Equal(t, "App", doc.Discovery.Component)
	assert.Contains(t, doc.HTML, "function App(){return null}")
}

func TestBuildPriorityDeterminism(t *testing.T) {
	// HomePage arrives first in file order, but App is earlier in the
	// priority list and must win.
	b := newTestBuilder(t)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "pages/home.tsx", Content: "export function HomePage(){return null}", Type: "component"},
		{Path: "App.tsx", Content: "export default function App(){return null}", Type: "component"},
	}}

	doc := b.Build(context.Background(), project)

	assert.Equal(t, "App", doc.Discovery.Component)
}

func TestStylesInlinedInFileOrder(t *testing.T) {
	b := newTestBuilder(t)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "globals.css", Content: ".first{color:red}", Type: "style"},
		{Path: "theme.css", Content: ".second{color:blue}", Type: "style"},
		{Path: "App.jsx", Content: "function App(){return null}", Type: "component"},
	}}

	doc := b.Build(context.Background(), project)

	first := strings.Index(doc.HTML, ".first{color:red}")
	second := strings.Index(doc.HTML, ".second{color:blue}")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestScriptProvenanceComments(t *testing.T) {
	b := newTestBuilder(t)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "App.jsx", Content: "function App(){return null}", Type: "component"},
		{Path: "lib/util.js", Content: "function helper(){return 1}", Type: "util"},
	}}

	doc := b.Build(context.Background(), project)

	assert.Contains(t, doc.HTML, "// --- App.jsx ---")
	assert.Contains(t, doc.HTML, "// --- lib/util.js ---")
}

func TestScaffoldPresent(t *testing.T) {
	b := newTestBuilder(t)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "App.jsx", Content: "function App(){return null}", Type: "component"},
	}}

	doc := b.Build(context.Background(), project)

	// Framework hook bindings, error capture and the error boundary all
	// ship with every document.
	assert.Contains(t, doc.HTML, "var useState = React.useState")
	assert.Contains(t, doc.HTML, `window.addEventListener("error"`)
	assert.Contains(t, doc.HTML, `window.addEventListener("unhandledrejection"`)
	assert.Contains(t, doc.HTML, "class ErrorBoundary")
	assert.Contains(t, doc.HTML, `"App","Page","Home","HomePage","Main","Index","Root"`)
}

func TestDescriptionSanitizedInTitle(t *testing.T) {
	b := newTestBuilder(t)
	project := &types.Project{
		Files: []types.ProjectFile{
			{Path: "App.jsx", Content: "function App(){return null}", Type: "component"},
		},
		Description: "<script>alert(1)</script>todo list",
	}

	doc := b.Build(context.Background(), project)

	assert.Contains(t, doc.HTML, "<title>todo list</title>")
	assert.NotContains(t, doc.HTML, "<script>alert(1)</script>")
}

func TestBuildWithoutDiscovererUsesLexicalScan(t *testing.T) {
	b := NewBuilder(nil, nil)
	project := &types.Project{Files: []types.ProjectFile{
		{Path: "App.tsx", Content: "export default function App(){return <div/>}", Type: "component"},
	}}

	doc := b.Build(context.Background(), project)

	assert.Equal(t, "App", doc.Discovery.Component)
}

func TestClassifyStylesheets(t *testing.T) {
	cases := []struct {
		file  types.ProjectFile
		style bool
	}{
		{types.ProjectFile{Path: "x.css", Type: "component"}, true},
		{types.ProjectFile{Path: "app/globals.css", Type: ""}, true},
		{types.ProjectFile{Path: "styles.css.bak", Type: ""}, true}, // path contains styles.css
		{types.ProjectFile{Path: "theme.txt", Type: "style"}, true},
		{types.ProjectFile{Path: "App.tsx", Type: "component"}, false},
	}
	for _, tc := range cases {
		if got := isStylesheet(tc.file); got != tc.style {
			t.Errorf("isStylesheet(%q/%q) = %v, want %v", tc.file.Path, tc.file.Type, got, tc.style)
		}
	}
}

func TestClassifyScripts(t *testing.T) {
	for _, path := range []string{"a.js", "a.jsx", "a.ts", "a.tsx", "a.mjs"} {
		if !isScript(types.ProjectFile{Path: path}) {
			t.Errorf("%s should classify as script", path)
		}
	}
	for _, path := range []string{"a.css", "a.json", "a.md", "ajs"} {
		if isScript(types.ProjectFile{Path: path}) {
			t.Errorf("%s should not classify as script", path)
		}
	}
}

func TestStyleTaggedScriptIsNotExecuted(t *testing.T) {
	// Stylesheet classification wins over the script extension check.
	c := classify(&types.Project{Files: []types.ProjectFile{
		{Path: "tokens.ts", Content: ":root{}", Type: "style"},
	}})
	assert.Len(t, c.styles, 1)
	assert.Empty(t, c.scripts)
}
