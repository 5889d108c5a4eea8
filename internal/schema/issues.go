package schema

import (
	"fmt"
	"strings"

	"github.com/microapp/previewd/internal/shared/types"
)

// label renders a path for humans; the root has no path.
func label(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

func invalidType(path, expected, received string) types.Issue {
	return types.Issue{
		Kind:     types.IssueInvalidType,
		Path:     path,
		Expected: expected,
		Received: received,
		Message:  fmt.Sprintf("%s: expected %s, received %s", label(path), expected, received),
	}
}

func invalidLiteral(path, expected, received string) types.Issue {
	return types.Issue{
		Kind:     types.IssueInvalidLiteral,
		Path:     path,
		Expected: expected,
		Received: received,
		Message:  fmt.Sprintf("%s: expected literal %q, received %s", label(path), expected, received),
	}
}

func tooSmall(path string, minimum int, unit string) types.Issue {
	return types.Issue{
		Kind:    types.IssueTooSmall,
		Path:    path,
		Minimum: minimum,
		Message: fmt.Sprintf("%s: must contain at least %d %s", label(path), minimum, unit),
	}
}

func unrecognizedKeys(path string, keys []string) types.Issue {
	return types.Issue{
		Kind:    types.IssueUnrecognizedKeys,
		Path:    path,
		Keys:    keys,
		Message: fmt.Sprintf("%s: unrecognized key(s) %s", label(path), strings.Join(quoteAll(keys), ", ")),
	}
}

func invalidUnion(path string, variants [][]types.Issue) types.Issue {
	return types.Issue{
		Kind:     types.IssueInvalidUnion,
		Path:     path,
		Variants: variants,
		Message:  fmt.Sprintf("%s: no envelope shape matched", label(path)),
	}
}

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}

// Summarize formats a one-line human summary from an issue list. Only the
// first issue contributes; later issues are preserved for detail views.
func Summarize(issues []types.Issue) string {
	if len(issues) == 0 {
		return "invalid message"
	}
	return "invalid message: " + issues[0].Message
}
