package schema

import (
	"fmt"
	"sort"

	"github.com/bytedance/sonic"

	"github.com/microapp/previewd/internal/shared/types"
)

// MaxMessageBytes is the default inbound payload size limit.
const MaxMessageBytes = 1 * 1024 * 1024

// Result is the outcome of validating one inbound payload. Exactly one of
// Project or Issues is meaningful.
type Result struct {
	Project *types.Project
	Issues  []types.Issue
	Summary string
}

// Valid reports whether the payload matched an envelope arm.
func (r Result) Valid() bool { return r.Project != nil }

// Validator decides membership in the inbound envelope union and extracts
// the normalized Project. It holds no mutable state and is safe for
// concurrent use.
type Validator struct {
	maxBytes int
}

// New creates a validator with the default size limit.
func New() *Validator {
	return &Validator{maxBytes: MaxMessageBytes}
}

// NewWithLimit creates a validator with a custom payload size limit.
func NewWithLimit(maxBytes int) *Validator {
	if maxBytes <= 0 {
		maxBytes = MaxMessageBytes
	}
	return &Validator{maxBytes: maxBytes}
}

// Validate decodes raw JSON and decides membership in the envelope union.
// Extraction of the Project happens only after the matching arm validated
// in full, so diagnostics always describe the arm that failed.
func (v *Validator) Validate(raw []byte) Result {
	if len(raw) > v.maxBytes {
		issues := []types.Issue{invalidType("", fmt.Sprintf("payload under %d bytes", v.maxBytes), fmt.Sprintf("%d bytes", len(raw)))}
		return Result{Issues: issues, Summary: Summarize(issues)}
	}

	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		issues := []types.Issue{invalidType("", "json", "malformed input")}
		return Result{Issues: issues, Summary: Summarize(issues)}
	}
	return v.ValidateValue(payload)
}

// ValidateValue decides membership for an already-decoded value.
func (v *Validator) ValidateValue(payload any) Result {
	flatIssues, project := validateFlat(payload)
	if project != nil {
		return Result{Project: project}
	}

	wrappedIssues, project := validateWrapped(payload)
	if project != nil {
		return Result{Project: project}
	}

	// Neither arm matched. The flat arm's issues lead (first-failure-wins
	// summarization), followed by a union issue carrying both arms.
	issues := append([]types.Issue{}, flatIssues...)
	issues = append(issues, invalidUnion("", [][]types.Issue{flatIssues, wrappedIssues}))
	return Result{Issues: issues, Summary: Summarize(issues)}
}

// validateFlat checks {type:"data", data:<project>}. Extra keys on the
// envelope itself are permitted.
func validateFlat(payload any) ([]types.Issue, *types.Project) {
	root, issues := envelopeRoot(payload)
	if issues != nil {
		return issues, nil
	}

	data, ok := root["data"]
	if !ok {
		return []types.Issue{invalidType("data", "object", "undefined")}, nil
	}
	issues = validateProject(data, "data")
	if len(issues) > 0 {
		return issues, nil
	}
	return nil, extractProject(data)
}

// validateWrapped checks {type:"data", data:{output:{data:<project>}}}.
// The wrapper objects tolerate extra keys; only the project is strict.
func validateWrapped(payload any) ([]types.Issue, *types.Project) {
	root, issues := envelopeRoot(payload)
	if issues != nil {
		return issues, nil
	}

	raw, ok := root["data"]
	if !ok {
		return []types.Issue{invalidType("data", "object", "undefined")}, nil
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return []types.Issue{invalidType("data", "object", typeName(raw))}, nil
	}
	rawOut, ok := data["output"]
	if !ok {
		return []types.Issue{invalidType("data.output", "object", "undefined")}, nil
	}
	output, ok := rawOut.(map[string]any)
	if !ok {
		return []types.Issue{invalidType("data.output", "object", typeName(rawOut))}, nil
	}
	inner, ok := output["data"]
	if !ok {
		return []types.Issue{invalidType("data.output.data", "object", "undefined")}, nil
	}
	issues = validateProject(inner, "data.output.data")
	if len(issues) > 0 {
		return issues, nil
	}
	return nil, extractProject(inner)
}

// envelopeRoot validates the parts both arms share: an object root with the
// "data" discriminator literal.
func envelopeRoot(payload any) (map[string]any, []types.Issue) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, []types.Issue{invalidType("", "object", typeName(payload))}
	}
	rawType, ok := root["type"]
	if !ok {
		return nil, []types.Issue{invalidType("type", "string", "undefined")}
	}
	typ, ok := rawType.(string)
	if !ok {
		return nil, []types.Issue{invalidType("type", "string", typeName(rawType))}
	}
	if typ != "data" {
		return nil, []types.Issue{invalidLiteral("type", "data", fmt.Sprintf("%q", typ))}
	}
	return root, nil
}

var projectKeys = map[string]bool{"files": true, "description": true, "instructions": true}
var fileKeys = map[string]bool{"path": true, "content": true, "type": true}

// validateProject strictly checks a project object: files is a non-empty
// array of exact-shape file objects, description/instructions optional
// strings, no unknown keys.
func validateProject(v any, path string) []types.Issue {
	obj, ok := v.(map[string]any)
	if !ok {
		return []types.Issue{invalidType(path, "object", typeName(v))}
	}

	var issues []types.Issue

	files, ok := obj["files"]
	if !ok {
		issues = append(issues, invalidType(path+".files", "array", "undefined"))
	} else if arr, ok := files.([]any); !ok {
		issues = append(issues, invalidType(path+".files", "array", typeName(files)))
	} else if len(arr) == 0 {
		issues = append(issues, tooSmall(path+".files", 1, "element(s)"))
	} else {
		for i, f := range arr {
			issues = append(issues, validateFile(f, fmt.Sprintf("%s.files[%d]", path, i))...)
		}
	}

	for _, key := range []string{"description", "instructions"} {
		if val, ok := obj[key]; ok {
			if _, ok := val.(string); !ok {
				issues = append(issues, invalidType(path+"."+key, "string", typeName(val)))
			}
		}
	}

	if extra := unknownKeys(obj, projectKeys); len(extra) > 0 {
		issues = append(issues, unrecognizedKeys(path, extra))
	}
	return issues
}

func validateFile(v any, path string) []types.Issue {
	obj, ok := v.(map[string]any)
	if !ok {
		return []types.Issue{invalidType(path, "object", typeName(v))}
	}

	var issues []types.Issue
	for _, key := range []string{"path", "content", "type"} {
		val, ok := obj[key]
		if !ok {
			issues = append(issues, invalidType(path+"."+key, "string", "undefined"))
			continue
		}
		s, ok := val.(string)
		if !ok {
			issues = append(issues, invalidType(path+"."+key, "string", typeName(val)))
			continue
		}
		// content may be empty; path and type may not.
		if s == "" && key != "content" {
			issues = append(issues, tooSmall(path+"."+key, 1, "character(s)"))
		}
	}

	if extra := unknownKeys(obj, fileKeys); len(extra) > 0 {
		issues = append(issues, unrecognizedKeys(path, extra))
	}
	return issues
}

// extractProject converts an already-validated project value. Called only
// after validateProject returned no issues.
func extractProject(v any) *types.Project {
	obj := v.(map[string]any)
	arr := obj["files"].([]any)

	project := &types.Project{Files: make([]types.ProjectFile, 0, len(arr))}
	for _, f := range arr {
		file := f.(map[string]any)
		project.Files = append(project.Files, types.ProjectFile{
			Path:    file["path"].(string),
			Content: file["content"].(string),
			Type:    file["type"].(string),
		})
	}
	if s, ok := obj["description"].(string); ok {
		project.Description = s
	}
	if s, ok := obj["instructions"].(string); ok {
		project.Instructions = s
	}
	return project
}

func unknownKeys(obj map[string]any, allowed map[string]bool) []string {
	var extra []string
	for k := range obj {
		if !allowed[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
