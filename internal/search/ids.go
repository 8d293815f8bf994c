package search

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator generates search IDs.
// Implemented by UUIDv7Generator (production) and testutil.FixedIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time. Production uses time.Now.
type Clock func() time.Time

// UUIDv7Generator generates time-sortable UUIDv7 search IDs, so history IDs
// sort by creation time.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
