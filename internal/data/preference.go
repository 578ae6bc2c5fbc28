package data

import (
	"sync"
	"time"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
)

// PreferenceStore keeps each user's selected model in memory for the
// lifetime of the process. Entries are only replaced, never expired.
type PreferenceStore struct {
	mu           sync.RWMutex
	prefs        map[string]domain.UserPreference
	defaultModel domain.Model
	now          func() time.Time
}

// NewPreferenceStore creates a new preference store. An empty defaultModel
// means domain.DefaultModel.
func NewPreferenceStore(defaultModel domain.Model) *PreferenceStore {
	if defaultModel == "" {
		defaultModel = domain.DefaultModel
	}
	return &PreferenceStore{
		prefs:        make(map[string]domain.UserPreference),
		defaultModel: defaultModel,
		now:          time.Now,
	}
}

// Get returns the user's model, or the default model when unset
func (s *PreferenceStore) Get(userID string) domain.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[userID]; ok {
		return p.Model
	}
	return s.defaultModel
}

// Set stores the user's model
func (s *PreferenceStore) Set(userID string, model domain.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = domain.UserPreference{
		UserID:       userID,
		Model:        model,
		LastActiveAt: s.now(),
	}
}

// Len returns the number of users with a stored preference
func (s *PreferenceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prefs)
}
