package order

import (
	"time"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ListFilter narrows the dashboard listing to orders created on the days
// From through To, both inclusive. Zero values leave that side open.
type ListFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// bounds returns the half-open creation-time range [from, until).
func (f ListFilter) bounds() (from, until *time.Time) {
	if !f.From.IsZero() {
		start := startOfDay(f.From)
		from = &start
	}
	if !f.To.IsZero() {
		end := startOfDay(f.To).AddDate(0, 0, 1)
		until = &end
	}
	return from, until
}

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultListLimit
	case f.Limit > maxListLimit:
		return maxListLimit
	default:
		return f.Limit
	}
}

// Contains reports whether createdAt falls inside the filter's date range.
func (f ListFilter) Contains(createdAt time.Time) bool {
	from, until := f.bounds()
	if from != nil && createdAt.Before(*from) {
		return false
	}
	if until != nil && !createdAt.Before(*until) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
