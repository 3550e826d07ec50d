package matching

import "sync"

// Thresholds are the matching cut-offs used by the services
type Thresholds struct {
	Suggest    float64
	Duplicate  float64
	AutoAssign float64
}

// DefaultThresholds returns the stock cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{Suggest: 0.3, Duplicate: 0.8, AutoAssign: 0.85}
}

// Settings holds thresholds that can be swapped while the server runs
type Settings struct {
	mu         sync.RWMutex
	thresholds Thresholds
}

// NewSettings creates settings, replacing out-of-range values with defaults
func NewSettings(t Thresholds) *Settings {
	return &Settings{thresholds: sanitize(t)}
}

// Get returns the current thresholds
func (s *Settings) Get() Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thresholds
}

// Set replaces the thresholds
func (s *Settings) Set(t Thresholds) {
	t = sanitize(t)
	s.mu.Lock()
	s.thresholds = t
	s.mu.Unlock()
}

func sanitize(t Thresholds) Thresholds {
	d := DefaultThresholds()
	if t.Suggest <= 0 || t.Suggest > 1 {
		t.Suggest = d.Suggest
	}
	if t.Duplicate <= 0 || t.Duplicate > 1 {
		t.Duplicate = d.Duplicate
	}
	if t.AutoAssign <= 0 || t.AutoAssign > 1 {
		t.AutoAssign = d.AutoAssign
	}
	return t
}
