package types

import "time"

// ProjectFile is a single source file within a project. Path is a
// slash-delimited logical location, not a real filesystem path; Type is a
// free-form role tag such as "component" or "style". Files are immutable
// once received.
type ProjectFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Project is the validated payload extracted from an inbound envelope.
// Invariant: at least one file. Paths are not required to be unique; the
// first file matching a semantic role wins.
type Project struct {
	Files        []ProjectFile `json:"files"`
	Description  string        `json:"description,omitempty"`
	Instructions string        `json:"instructions,omitempty"`
}

// Issue is one structured validation failure. Kind is machine-checkable;
// Path locates the offending value; the remaining fields carry whatever the
// formatter needs.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Path     string    `json:"path"`
	Expected string    `json:"expected,omitempty"`
	Received string    `json:"received,omitempty"`
	Minimum  int       `json:"minimum,omitempty"`
	Keys     []string  `json:"keys,omitempty"`
	Message  string    `json:"message"`
	// Variants holds per-arm issues when Kind is IssueInvalidUnion.
	Variants [][]Issue `json:"variants,omitempty"`
}

// IssueKind enumerates the machine-checkable failure categories.
type IssueKind string

const (
	IssueInvalidType      IssueKind = "invalid_type"
	IssueInvalidLiteral   IssueKind = "invalid_literal"
	IssueTooSmall         IssueKind = "too_small"
	IssueUnrecognizedKeys IssueKind = "unrecognized_keys"
	IssueInvalidUnion     IssueKind = "invalid_union"
)

// RejectedMessage is one entry in the bounded rejection log.
type RejectedMessage struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Origin  string    `json:"origin"`
	Raw     string    `json:"msg"`
	Issues  []Issue   `json:"issues"`
	Summary string    `json:"summary"`
}

// ConnectionStatus holds message counters. It is derived from listener
// activity and never authoritative over the rejection log.
type ConnectionStatus struct {
	TotalMessages int        `json:"total_messages"`
	ValidCount    int        `json:"valid_count"`
	RejectedCount int        `json:"rejected_count"`
	LastMessage   *time.Time `json:"last_message,omitempty"`
}

// Discovery reports the root-component search result for the current
// preview, as determined by the server-side sandbox pass.
type Discovery struct {
	Component  string   `json:"component,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// PreviewSnapshot is the read-only view of session state consumed by the
// presentation shell.
type PreviewSnapshot struct {
	Project       *Project          `json:"project"`
	SelectedPath  string            `json:"selected_path,omitempty"`
	Document      string            `json:"document,omitempty"`
	BuildError    string            `json:"build_error,omitempty"`
	Discovery     Discovery         `json:"discovery"`
	Status        ConnectionStatus  `json:"status"`
	Rejections    []RejectedMessage `json:"rejections"`
	BannerVisible bool              `json:"banner_visible"`
}
