package usecase

import (
	"sync"

	"VietPulse/internal/domain/models"
)

// Latest holds the most recent refresh cycle output for the API handlers
// and the websocket hub.
type Latest struct {
	mu sync.RWMutex
	d  *models.Dashboard
}

func NewLatest() *Latest {
	return &Latest{}
}

func (l *Latest) Set(d *models.Dashboard) {
	l.mu.Lock()
	l.d = d
	l.mu.Unlock()
}

// Get returns the last stored dashboard, ok=false before the first cycle.
func (l *Latest) Get() (*models.Dashboard, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.d, l.d != nil
}
