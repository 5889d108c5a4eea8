// Package schema validates inbound project messages.
//
// The message channel accepts one discriminated union with two arms:
//
//	flat:    {"type": "data", "data": <project>}
//	wrapped: {"type": "data", "data": {"output": {"data": <project>}}}
//
// Both arms normalize to the same Project. Validation is strict on the
// project and its files (no missing or unknown fields) and permissive
// everywhere else. On failure the validator returns an ordered list of
// structured issues plus a one-line summary derived from the first issue;
// it never mutates any state itself.
package schema
