// Package session holds per-user scheduler state and the conflict-aware
// save protocol.
//
// The remote sheet has no transactional write and no native optimistic-lock
// primitive, so conflict detection is emulated client-side: re-read the
// table, compare its max LastUpdated against the watermark this session saw
// last, and only then write. Two sessions can both pass the check between
// the re-read and the write; that race window is inherent to the backend
// and is surfaced here as a documented limitation, not hidden.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jwlam-hk/interview-scheduler/internal/logger"
	"github.com/jwlam-hk/interview-scheduler/internal/models"
	"github.com/jwlam-hk/interview-scheduler/internal/store"
)

// Resolution is the user's answer to a detected save conflict.
type Resolution int

const (
	// ResolutionNone halts the save, leaving session and remote untouched,
	// so the user can still choose.
	ResolutionNone Resolution = iota
	// ResolutionReload discards the candidate snapshot and re-syncs the
	// session from the fresh remote read.
	ResolutionReload
	// ResolutionForce writes despite the conflict, accepting possible loss
	// of the other writer's changes.
	ResolutionForce
)

// ParseResolution maps the wire form of a resolution choice.
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "", "none":
		return ResolutionNone, nil
	case "reload":
		return ResolutionReload, nil
	case "force":
		return ResolutionForce, nil
	}
	return ResolutionNone, fmt.Errorf("unknown resolution %q", s)
}

// Conflict describes a detected intervening write by another session.
type Conflict struct {
	CloudLatest   time.Time `json:"cloud_latest"`
	SessionLatest time.Time `json:"session_latest"`
}

// SaveOutcome reports how a save attempt ended. Exactly one of Saved,
// Reloaded, or Conflict != nil holds.
type SaveOutcome struct {
	Saved    bool
	Reloaded bool
	Conflict *Conflict
	SavedAt  time.Time
	Snapshot models.Snapshot
}

// Session is the sole owner of one user's mutable scheduler state: the
// current table snapshot plus the watermark of the last known remote write.
type Session struct {
	mu        sync.Mutex
	id        string
	store     store.Store
	logger    *logger.Logger
	snapshot  models.Snapshot
	watermark time.Time
	now       func() time.Time
}

// ID returns the session identifier handed to the client.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the session's current table.
func (s *Session) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Watermark returns the max LastUpdated this session has observed.
func (s *Session) Watermark() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark
}

// Refresh replaces the session snapshot and watermark from a fresh remote
// read, discarding any unsaved local state.
func (s *Session) Refresh(ctx context.Context) error {
	remote, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("refreshing from remote: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = remote
	s.watermark = remote.MaxLastUpdated()
	s.logger.Info("Session refreshed from remote",
		logger.Action("refresh"),
		logger.Session(s.id),
		logger.Rows(len(remote)))
	return nil
}

// Save runs the conflict-aware save protocol for a candidate snapshot:
// re-fetch remote state, compare watermarks timezone-naive, resolve any
// conflict per the given resolution, then stamp and write.
//
// Session state is mutated only after a confirmed successful write (or an
// explicit reload); a failed fetch or write leaves it untouched.
func (s *Session) Save(ctx context.Context, candidate models.Snapshot, res Resolution) (*SaveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remote, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking remote state: %w", err)
	}

	cloudLatest := naiveUTC(remote.MaxLastUpdated())
	sessionLatest := naiveUTC(s.watermark)

	if !cloudLatest.IsZero() && !sessionLatest.IsZero() && cloudLatest.After(sessionLatest) {
		switch res {
		case ResolutionReload:
			s.snapshot = remote
			s.watermark = remote.MaxLastUpdated()
			s.logger.Warn("Save aborted, session reloaded from remote",
				logger.Action("save"),
				logger.Status("reloaded"),
				logger.Session(s.id))
			return &SaveOutcome{Reloaded: true, Snapshot: s.snapshot.Clone()}, nil
		case ResolutionForce:
			s.logger.Warn("Conflict overridden by force save",
				logger.Action("save"),
				logger.Status("forced"),
				logger.Session(s.id))
		default:
			s.logger.Warn("Save blocked by remote conflict",
				logger.Action("save"),
				logger.Status("conflict"),
				logger.Session(s.id),
				logger.F("CLOUD_LATEST", cloudLatest.Format(models.TimestampLayout)),
				logger.F("SESSION_LATEST", sessionLatest.Format(models.TimestampLayout)))
			return &SaveOutcome{Conflict: &Conflict{CloudLatest: cloudLatest, SessionLatest: sessionLatest}}, nil
		}
	}

	// One timestamp for the whole save; the sheet stores whole seconds.
	savedAt := naiveUTC(s.now().Truncate(time.Second))
	clean := candidate.Normalize().Stamp(savedAt)

	if err := s.store.Save(ctx, clean); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	s.snapshot = clean
	s.watermark = savedAt
	s.logger.Info("Snapshot saved",
		logger.Action("save"),
		logger.Status("success"),
		logger.Session(s.id),
		logger.Rows(len(clean)))
	return &SaveOutcome{Saved: true, SavedAt: savedAt, Snapshot: clean.Clone()}, nil
}

// naiveUTC strips the timezone by rebuilding the wall-clock fields in UTC,
// so conflict comparison is not defeated by offset differences between the
// client and the store.
func naiveUTC(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	return time.Date(year, month, day, hour, min, sec, t.Nanosecond(), time.UTC)
}
