// Package types defines shared data structures used across the preview service.
//
// These types form the contract between the message listener, the schema
// validator, the preview builder, and the presentation-facing API:
//   - ProjectFile/Project: the validated payload a parent document sends
//   - RejectedMessage: one entry in the bounded rejection log
//   - ConnectionStatus: message counters derived from listener activity
//   - PreviewSnapshot: the read-only view handed to the presentation shell
package types
