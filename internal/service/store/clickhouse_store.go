package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	"VietPulse/pkg/logger"
)

// ClickHouseStore is the durable alternative to the JSON-file store for
// deployments that already run ClickHouse. Values are stored as strings so
// decimals survive round-trips untouched; day-level replacement relies on
// a ReplacingMergeTree ordered by (asset, date) with ts as the version.
type ClickHouseStore struct {
	db    *sql.DB
	table string
	log   *logger.Logger
}

func NewClickHouseStore(db *sql.DB, table string, log *logger.Logger) *ClickHouseStore {
	return &ClickHouseStore{db: db, table: table, log: log}
}

// Record inserts the day's snapshot; the merge tree keeps the latest write
// per (asset, day). Failures are logged and swallowed, matching the file
// store's best-effort persistence.
func (s *ClickHouseStore) Record(ctx context.Context, asset string, value decimal.Decimal, at time.Time) {
	q := "INSERT INTO " + s.table + " (asset, date, value, ts) VALUES (?, ?, ?, ?)"
	if _, err := s.db.ExecContext(ctx, q, asset, at.Format(dateLayout), value.String(), at); err != nil {
		s.log.Warn("clickhouse snapshot insert failed",
			logger.String("asset", asset),
			logger.Error(err),
		)
	}
}

// Lookup scans the tolerance window around target and picks the closest
// day, earlier date winning ties.
func (s *ClickHouseStore) Lookup(ctx context.Context, asset string, target time.Time) (decimal.Decimal, bool) {
	from := target.AddDate(0, 0, -MaxLookupToleranceDays).Format(dateLayout)
	to := target.AddDate(0, 0, MaxLookupToleranceDays).Format(dateLayout)

	q := "SELECT toString(date), argMax(value, ts) FROM " + s.table +
		" WHERE asset = ? AND date BETWEEN ? AND ? GROUP BY date ORDER BY date"
	rows, err := s.db.QueryContext(ctx, q, asset, from, to)
	if err != nil {
		s.log.Warn("clickhouse snapshot lookup failed", logger.Error(err))
		return decimal.Decimal{}, false
	}
	defer rows.Close()

	targetDay, err := time.Parse(dateLayout, target.Format(dateLayout))
	if err != nil {
		return decimal.Decimal{}, false
	}

	var bestValue decimal.Decimal
	var bestDelta time.Duration
	found := false
	for rows.Next() {
		var date, raw string
		if err := rows.Scan(&date, &raw); err != nil {
			continue
		}
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		delta := day.Sub(targetDay)
		if delta < 0 {
			delta = -delta
		}
		if !found || delta < bestDelta {
			bestValue, bestDelta, found = v, delta, true
		}
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("clickhouse snapshot scan failed", logger.Error(err))
		return decimal.Decimal{}, false
	}
	if !found || bestDelta > MaxLookupToleranceDays*24*time.Hour {
		return decimal.Decimal{}, false
	}
	return bestValue, true
}

// All returns the full dated series for an asset, ascending by date.
func (s *ClickHouseStore) All(ctx context.Context, asset string) []models.Snapshot {
	q := "SELECT toString(date), argMax(value, ts), max(ts) FROM " + s.table +
		" WHERE asset = ? GROUP BY date ORDER BY date"
	rows, err := s.db.QueryContext(ctx, q, asset)
	if err != nil {
		s.log.Warn("clickhouse snapshot list failed", logger.Error(err))
		return nil
	}
	defer rows.Close()

	var out []models.Snapshot
	for rows.Next() {
		var date, raw string
		var ts time.Time
		if err := rows.Scan(&date, &raw, &ts); err != nil {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		out = append(out, models.Snapshot{Date: date, Value: v, Timestamp: ts})
	}
	return out
}
