// Package viewstate tracks the loading flag, the user-visible error and the
// reload generation shared by every view.
package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// ErrSuperseded is returned by a reload that finished after a newer one started.
var ErrSuperseded = errors.New("viewstate: reload superseded")

// Ticket identifies one in-flight reload.
type Ticket struct {
	gen   uint64
	start time.Time
}

// State guards a view's collections. Views read and write their collections
// only inside Read, Commit and Mutate callbacks.
type State struct {
	mu      sync.RWMutex
	name    string
	gen     uint64
	loading bool
	errMsg  string
	logger  *logging.Logger
	metrics *metrics.ViewMetrics
}

func New(name string, logger *logging.Logger, m *metrics.ViewMetrics) *State {
	if logger == nil {
		logger = logging.Default()
	}
	return &State{name: name, logger: logger.With("view", name), metrics: m}
}

// Begin marks the view loading and returns the ticket for the new reload.
func (s *State) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = true
	s.errMsg = ""
	return Ticket{gen: s.gen, start: time.Now()}
}

// Commit settles a reload. Results of a superseded or cancelled reload are
// dropped. On fetchErr the collections stay as they were and message(fetchErr)
// becomes the view's error; otherwise apply installs the new collections.
func (s *State) Commit(ctx context.Context, t Ticket, fetchErr error, message func(error) string, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.gen != s.gen {
		return ErrSuperseded
	}
	s.loading = false
	if err := ctx.Err(); err != nil {
		s.logger.Debug("reload discarded", "error", err)
		return err
	}

	s.metrics.ObserveReload(s.name, fetchErr != nil, time.Since(t.start).Seconds())
	if fetchErr != nil {
		s.errMsg = message(fetchErr)
		s.logger.Error("reload failed", "error", fetchErr)
		return fetchErr
	}
	apply()
	return nil
}

// Mutate runs fn under the write lock, used for optimistic local edits.
func (s *State) Mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// MutateCurrent runs fn under the write lock only while t is the latest
// reload and ctx is live. It reports whether fn ran.
func (s *State) MutateCurrent(ctx context.Context, t Ticket, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen || ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// Read runs fn under the read lock.
func (s *State) Read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Fail records a user-visible error outside of a reload, e.g. a failed delete.
func (s *State) Fail(msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
	s.logger.Error(msg, "error", err)
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current user-visible error, empty when none.
func (s *State) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Logger returns the view-scoped logger.
func (s *State) Logger() *logging.Logger {
	return s.logger
}
