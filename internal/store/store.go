package store

import (
	"context"
	"errors"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

// Store defines the interface for remote booking-table operations.
// The remote store is last-writer-wins: Save overwrites the whole table,
// there is no row-level diffing and no conditional write primitive.
type Store interface {
	// Load fetches and normalizes the full remote table.
	Load(ctx context.Context) (models.Snapshot, error)
	// Save overwrites the remote table with the given snapshot.
	Save(ctx context.Context, snap models.Snapshot) error
}

// ErrRateLimited marks failures caused by remote-store rate limiting.
// Callers should tell the user to wait and retry rather than treat the
// store as broken.
var ErrRateLimited = errors.New("remote store rate limited")

// IsRateLimited reports whether err was classified as a rate-limit failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
