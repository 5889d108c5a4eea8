package preview

import (
	"regexp"
	"strings"

	"github.com/microapp/previewd/internal/shared/types"
)

var scriptPattern = regexp.MustCompile(`\.(?:js|jsx|ts|tsx|mjs)$`)

// isStylesheet reports whether a file contributes CSS. Checked before the
// script pattern, so a style-tagged file never doubles as a script.
func isStylesheet(f types.ProjectFile) bool {
	return f.Type == "style" ||
		strings.Contains(f.Path, "globals.css") ||
		strings.Contains(f.Path, "styles.css") ||
		strings.HasSuffix(f.Path, ".css")
}

func isScript(f types.ProjectFile) bool {
	return scriptPattern.MatchString(f.Path)
}

// classification partitions project files, preserving file order within
// each category.
type classification struct {
	styles  []types.ProjectFile
	scripts []types.ProjectFile
	paths   []string
}

func classify(project *types.Project) classification {
	var c classification
	for _, f := range project.Files {
		c.paths = append(c.paths, f.Path)
		switch {
		case isStylesheet(f):
			c.styles = append(c.styles, f)
		case isScript(f):
			c.scripts = append(c.scripts, f)
		}
	}
	return c
}
