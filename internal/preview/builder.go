package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/microapp/previewd/internal/infrastructure/logging"
	"github.com/microapp/previewd/internal/preview/sandbox"
	"github.com/microapp/previewd/internal/shared/types"
	"github.com/microapp/previewd/internal/strip"
)

// Document is the builder's output: always renderable, never an error.
type Document struct {
	HTML       string
	Discovery  types.Discovery
	Diagnostic bool   // no recognized script files; terminal, not a failure
	Failure    string // non-empty when the outer boundary caught a panic
}

// Builder composes project files into a preview document.
type Builder struct {
	discoverer *sandbox.Discoverer
	sanitizer  *bluemonday.Policy
	logger     *logging.Logger
}

// NewBuilder creates a builder. The discoverer is optional; without it the
// snapshot's discovery section is filled by a lexical scan only.
func NewBuilder(discoverer *sandbox.Discoverer, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Builder{
		discoverer: discoverer,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger,
	}
}

// Build produces the preview document for a project. Total: any panic in
// classification, stripping or assembly is converted into a minimal
// document carrying the error's description.
func (b *Builder) Build(ctx context.Context, project *types.Project) (doc Document) {
	defer func() {
		if r := recover(); r != nil {
			desc := fmt.Sprintf("preview build failed: %v", r)
			b.logger.Error("Preview build panicked", zap.Any("cause", r))
			doc = Document{HTML: renderFailure(desc), Failure: desc}
		}
	}()

	c := classify(project)
	if len(c.scripts) == 0 {
		return Document{HTML: renderDiagnostic(c.paths), Diagnostic: true}
	}

	var css strings.Builder
	for _, f := range c.styles {
		css.WriteString("/* ")
		css.WriteString(f.Path)
		css.WriteString(" */\n")
		css.WriteString(f.Content)
		css.WriteString("\n")
	}

	var bundle strings.Builder
	for _, f := range c.scripts {
		bundle.WriteString("// --- ")
		bundle.WriteString(f.Path)
		bundle.WriteString(" ---\n")
		bundle.WriteString(stripFile(f))
		bundle.WriteString("\n")
	}
	code := bundle.String()

	doc = Document{
		HTML:      renderDocument(b.title(project), css.String(), code),
		Discovery: b.discover(ctx, code),
	}
	return doc
}

// stripFile guards a single file's rewrite: a panic becomes an inline
// comment in place of the content instead of aborting the whole build.
func stripFile(f types.ProjectFile) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("/* failed to transform %s: %v */", f.Path, r)
		}
	}()
	return strip.Source(f.Content)
}

func (b *Builder) discover(ctx context.Context, code string) types.Discovery {
	if b.discoverer == nil {
		return sandbox.LexicalScan(code)
	}
	return b.discoverer.Discover(ctx, code)
}

// title derives the document title from the project description, sanitized
// because the description is free-form sender text.
func (b *Builder) title(project *types.Project) string {
	desc := strings.TrimSpace(b.sanitizer.Sanitize(project.Description))
	if desc == "" {
		return "Preview"
	}
	if len(desc) > 80 {
		desc = desc[:80]
	}
	return desc
}
