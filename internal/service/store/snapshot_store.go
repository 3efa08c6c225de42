// Package store persists per-asset daily value series and answers
// nearest-date lookups for the historical aggregator.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	"VietPulse/pkg/logger"
)

// MaxLookupToleranceDays bounds how far the nearest snapshot may sit from a
// lookup target before the value counts as unavailable.
const MaxLookupToleranceDays = 3

const dateLayout = "2006-01-02"

// Persistence loads and saves the whole store. Save must be all-or-nothing.
type Persistence interface {
	Load() (map[string][]models.Snapshot, error)
	Save(map[string][]models.Snapshot) error
}

// SnapshotStore keeps the series in memory and writes through to its
// Persistence on every mutation. Write failures are logged and swallowed:
// the in-memory series stays authoritative for the rest of the process.
type SnapshotStore struct {
	mu      sync.Mutex
	persist Persistence
	data    map[string][]models.Snapshot
	log     *logger.Logger
}

// New loads the persisted series. A corrupt or missing backing file
// degrades to an empty store rather than failing the caller.
func New(persist Persistence, log *logger.Logger) *SnapshotStore {
	data, err := persist.Load()
	if err != nil || data == nil {
		if err != nil {
			log.Warn("snapshot store load failed, starting empty", logger.Error(err))
		}
		data = make(map[string][]models.Snapshot)
	}
	return &SnapshotStore{persist: persist, data: data, log: log}
}

// Record upserts the snapshot for at's calendar day and persists the whole
// store. At most one snapshot exists per (asset, day); a later write for the
// same day replaces value and timestamp in place.
func (s *SnapshotStore) Record(_ context.Context, asset string, value decimal.Decimal, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := at.Format(dateLayout)
	entries := s.data[asset]

	replaced := false
	for i := range entries {
		if entries[i].Date == date {
			entries[i].Value = value
			entries[i].Timestamp = at
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, models.Snapshot{Date: date, Value: value, Timestamp: at})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	s.data[asset] = entries

	if err := s.persist.Save(s.data); err != nil {
		s.log.Warn("snapshot store save failed",
			logger.String("asset", asset),
			logger.Error(err),
		)
	}
}

// Lookup returns the recorded value whose date is closest to target, ties
// broken by the earlier date. ok is false when the asset has no snapshots or
// the winner is more than MaxLookupToleranceDays away.
func (s *SnapshotStore) Lookup(_ context.Context, asset string, target time.Time) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.data[asset]
	if len(entries) == 0 {
		return decimal.Decimal{}, false
	}

	targetDay, err := time.Parse(dateLayout, target.Format(dateLayout))
	if err != nil {
		return decimal.Decimal{}, false
	}

	var best *models.Snapshot
	var bestDelta time.Duration
	for i := range entries {
		day, err := time.Parse(dateLayout, entries[i].Date)
		if err != nil {
			continue
		}
		delta := day.Sub(targetDay)
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best = &entries[i]
			bestDelta = delta
		}
	}

	if best == nil || bestDelta > MaxLookupToleranceDays*24*time.Hour {
		return decimal.Decimal{}, false
	}
	return best.Value, true
}

// All returns the full dated series for an asset, ascending by date.
func (s *SnapshotStore) All(_ context.Context, asset string) []models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.data[asset]
	out := make([]models.Snapshot, len(entries))
	copy(out, entries)
	return out
}
