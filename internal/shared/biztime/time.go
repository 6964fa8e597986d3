// Package biztime computes reporting boundaries in the business timezone.
// Storage and transport stay in UTC; the business timezone only decides where
// a day or month starts when usage is summarised.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when no timezone is configured.
const DefaultTimezone = "UTC"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, UTC until Init is called.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// StartOfDayUTC returns business-timezone midnight of t's day, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	loc := Location()
	b := t.In(loc)
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc).UTC()
}

// DayRangeUTC returns the half-open [start, end) range of t's business day.
func DayRangeUTC(t time.Time) (time.Time, time.Time) {
	loc := Location()
	b := t.In(loc)
	start := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// MonthRangeUTC returns the half-open [start, end) range of t's business month.
func MonthRangeUTC(t time.Time) (time.Time, time.Time) {
	loc := Location()
	b := t.In(loc)
	start := time.Date(b.Year(), b.Month(), 1, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// FormatMetadataTime formats a timestamp for storage in subscription metadata.
func FormatMetadataTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
