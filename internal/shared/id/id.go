// Package id provides identifier generation for the partner SDK.
//
// Two identifier families exist:
//   - Session tokens: short, host-visible, carried on outbound URLs.
//     Synthesized only when the inbound link omits session_id.
//   - Handoff IDs: ULID-based, prefixed (hnd_*), used to correlate every
//     log line of one handoff attempt. Never leaves the process.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// SessionTokenLength is the length of a synthesized session token.
const SessionTokenLength = 8

// HandoffPrefix tags log-correlation IDs for one handoff attempt.
const HandoffPrefix = "hnd"

// HandoffID correlates log lines across one handoff attempt.
type HandoffID string

// String returns the raw identifier.
func (id HandoffID) String() string { return string(id) }

// NewSessionToken synthesizes a session identifier from a random UUID.
// It takes the first 8 characters of the canonical form, which always
// precede the first hyphen. The token is for display and log correlation
// only; it carries no cryptographic guarantee.
func NewSessionToken() string {
	return uuid.New().String()[:SessionTokenLength]
}

// Generator generates ULIDs with a guarded entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewHandoffID generates a correlation ID for one handoff attempt.
func NewHandoffID() HandoffID {
	return HandoffID(Default().GenerateWithPrefix(HandoffPrefix))
}
