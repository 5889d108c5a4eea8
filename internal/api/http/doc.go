// Package http exposes session state to the presentation shell.
//
// Every endpoint except the message POST is a read-only snapshot: the
// shell never mutates core state beyond selecting a file for its
// navigation view. The preview document is served under a CSP sandbox
// header so the embedding iframe gets script execution and same-origin
// content but no top-level navigation.
package http
