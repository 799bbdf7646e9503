// Package session holds the transient per-user state for one interaction
// cycle: the budget, the working table, and the latest categorize result.
// Nothing here survives process teardown.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/pipeline"
)

// Session is the explicit state for one user interaction cycle. The table
// is replaced wholesale on upload or edit; the last result is replaced on
// every categorize run.
type Session struct {
	ID        string           `json:"id"`
	Budget    float64          `json:"budget"`
	Table     *expense.Table   `json:"-"`
	LastRun   *pipeline.Result `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Store is an in-memory session store, safe for concurrent use. Sessions
// are created, replaced and discarded by explicit user actions only.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session with an empty table and zero budget.
func (s *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Table:     &expense.Table{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess

	return snapshot(sess)
}

// Get returns a copy of the session, or an error when it does not exist.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return snapshot(sess), nil
}

// SetBudget records the budget for advice context. Negative values are
// rejected; the budget is never validated against actual spend.
func (s *Store) SetBudget(id string, budget float64) error {
	if budget < 0 {
		return fmt.Errorf("budget must be non-negative, got %v", budget)
	}
	return s.update(id, func(sess *Session) {
		sess.Budget = budget
	})
}

// ReplaceTable swaps in a freshly normalized table, discarding any prior
// categorize result: results are recomputed per trigger, never carried
// over.
func (s *Store) ReplaceTable(id string, table *expense.Table) error {
	return s.update(id, func(sess *Session) {
		sess.Table = table
		sess.LastRun = nil
	})
}

// SetResult stores the outcome of a categorize run.
func (s *Store) SetResult(id string, result *pipeline.Result) error {
	return s.update(id, func(sess *Session) {
		sess.LastRun = result
	})
}

// Discard removes the session and all of its state.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) update(id string, apply func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	apply(sess)
	sess.UpdatedAt = time.Now()
	return nil
}

// snapshot copies the session header to keep callers from mutating stored
// state without going through the store.
func snapshot(sess *Session) *Session {
	copied := *sess
	return &copied
}
