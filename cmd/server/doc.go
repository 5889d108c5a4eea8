// Command server runs the embeddable project preview service.
//
// The service receives web-application project descriptions over its
// message channel, validates them against the envelope schema, and serves
// a sandboxed, self-contained preview document built from the project's
// files.
package main
