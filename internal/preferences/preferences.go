// Package preferences stores the practitioner settings that parameterise the
// dashboard projections. Collections are never stored here.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
)

// DefaultProfile is used when the caller does not name one.
const DefaultProfile = "default"

// MaxUpcomingLimit bounds the upcoming widget.
const MaxUpcomingLimit = 50

var (
	ErrInvalidLimit  = errors.New("preferences: upcoming limit out of range")
	ErrInvalidStatus = errors.New("preferences: unknown appointment status")
)

// Preferences controls the "próximas citas" widget.
type Preferences struct {
	UpcomingStatuses []clinic.Status `json:"upcomingStatuses"`
	UpcomingLimit    int             `json:"upcomingLimit"`
}

// Defaults builds preferences from configured values. Unknown status codes
// are skipped; a non-positive limit falls back to 5.
func Defaults(statuses []int, limit int) Preferences {
	p := Preferences{UpcomingStatuses: make([]clinic.Status, 0, len(statuses)), UpcomingLimit: limit}
	for _, code := range statuses {
		if s := clinic.Status(code); s.Valid() && !slices.Contains(p.UpcomingStatuses, s) {
			p.UpcomingStatuses = append(p.UpcomingStatuses, s)
		}
	}
	if p.UpcomingLimit <= 0 {
		p.UpcomingLimit = 5
	}
	return p
}

func (p Preferences) Validate() error {
	if p.UpcomingLimit < 1 || p.UpcomingLimit > MaxUpcomingLimit {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, p.UpcomingLimit)
	}
	for _, s := range p.UpcomingStatuses {
		if !s.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
		}
	}
	return nil
}

// Store persists preferences per profile.
type Store interface {
	Get(ctx context.Context, profile string) (Preferences, error)
	Set(ctx context.Context, profile string, p Preferences) error
}

// MemoryStore keeps preferences in process, used when no Redis is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	defaults Preferences
	items    map[string]Preferences
}

func NewMemoryStore(defaults Preferences) *MemoryStore {
	return &MemoryStore{defaults: defaults, items: make(map[string]Preferences)}
}

func (s *MemoryStore) Get(_ context.Context, profile string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.items[profileOrDefault(profile)]; ok {
		return clonePrefs(p), nil
	}
	return clonePrefs(s.defaults), nil
}

func (s *MemoryStore) Set(_ context.Context, profile string, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[profileOrDefault(profile)] = clonePrefs(p)
	return nil
}

func profileOrDefault(profile string) string {
	if profile == "" {
		return DefaultProfile
	}
	return profile
}

func clonePrefs(p Preferences) Preferences {
	p.UpcomingStatuses = slices.Clone(p.UpcomingStatuses)
	if p.UpcomingStatuses == nil {
		p.UpcomingStatuses = []clinic.Status{}
	}
	return p
}
