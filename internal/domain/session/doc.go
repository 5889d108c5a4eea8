// Package session owns the viewer's process-wide state.
//
// The manager is an explicit state container, not ambient global state: the
// message listener feeds it raw payloads through Accept, and the
// presentation layer reads immutable snapshots. Accept is the only mutating
// entry point and runs synchronously to completion per message, so two
// inbound messages never interleave.
//
// State machine: idle (no project yet) -> active on the first accepted
// message; active stays active, each accepted message replaces the project
// wholesale. A rejection never changes the project and never leaves active.
// Orthogonally, a rejection turns on a transient banner that a single
// pending timer clears after a fixed 10-second window.
package session
