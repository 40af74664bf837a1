package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwlam-hk/interview-scheduler/internal/logger"
	"github.com/jwlam-hk/interview-scheduler/internal/models"
	"github.com/jwlam-hk/interview-scheduler/internal/store"
)

// Manager keeps one Session per browser tab or user. Sessions share nothing
// but the remote sheet; the watermark check in Save is their only, advisory,
// coordination.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	logger   *logger.Logger
	sessions map[string]*Session
}

// NewManager creates a session registry over the given store.
func NewManager(st store.Store, log *logger.Logger) *Manager {
	return &Manager{
		store:    st,
		logger:   log,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, or creates a fresh one (with a new uuid)
// when id is unknown or empty. A new session is primed from the remote
// store; a failed load degrades to an empty table rather than failing the
// caller, with the error logged for the user-facing layer to surface.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[id]; ok {
		return sess
	}

	sess := &Session{
		id:     uuid.NewString(),
		store:  m.store,
		logger: m.logger,
		now:    time.Now,
	}

	remote, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("Initial load failed, starting with empty table",
			logger.Action("session_init"),
			logger.Session(sess.id),
			logger.Error(err))
		remote = models.Snapshot{}
	}
	sess.snapshot = remote
	sess.watermark = remote.MaxLastUpdated()

	m.sessions[sess.id] = sess
	m.logger.Info("Session created",
		logger.Action("session_init"),
		logger.Session(sess.id),
		logger.Rows(len(remote)))
	return sess
}
