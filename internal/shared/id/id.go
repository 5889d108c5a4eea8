// Package id generates prefixed ULIDs for connections and messages.
//
// ULIDs are lexicographically sortable, so rejection logs and connection
// records order by creation time without a separate timestamp sort. The
// prefix (conn_*, msg_*) makes log lines self-describing.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the ID kinds the service mints.
const (
	PrefixConnection = "conn"
	PrefixMessage    = "msg"
)

// Generator produces ULIDs from a locked entropy source. Safe for
// concurrent use.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

var defaultGenerator = NewGenerator()

// Generate returns a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// Prefixed returns "prefix_ULID".
func (g *Generator) Prefixed(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

// Connection returns a connection ID from the default generator.
func Connection() string {
	return defaultGenerator.Prefixed(PrefixConnection)
}

// Message returns a message ID from the default generator.
func Message() string {
	return defaultGenerator.Prefixed(PrefixMessage)
}
