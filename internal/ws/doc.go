// Package ws implements the inbound message channel.
//
// A parent document connects over WebSocket and sends envelope payloads;
// every frame runs through the schema validator and mutates session state
// synchronously before the next frame is read, so messages never
// interleave. The sender's origin is recorded with each rejection but is
// never used for access control: the viewer trusts whatever the host page
// sends, modulo schema validation.
//
// Message types (server -> client):
//   - system:   connection established
//   - accepted: project replaced, preview rebuilt
//   - rejected: validation failed; carries the summary and issue list
package ws
