// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// Adapter kinds understood by the scraper engine. An empty kind means the
// engine auto-detects the portal family from the URL.
const (
	AdapterUPSC       = "upsc"
	AdapterSSC        = "ssc"
	AdapterStatePSC   = "state_psc"
	AdapterUniversity = "university"
	AdapterGeneric    = "generic"
)

// DefaultPollIntervalHours is used when a source does not configure one.
const DefaultPollIntervalHours = 6

// Source is a monitored portal endpoint polled on a schedule.
type Source struct {
	ID                string     `db:"id" json:"id"`
	URL               string     `db:"url" json:"url"`
	Name              string     `db:"name" json:"name"`
	AdapterKind       string     `db:"adapter_kind" json:"adapter_kind"`
	Category          string     `db:"category" json:"category"`
	PollIntervalHours int        `db:"poll_interval_hours" json:"poll_interval_hours"`
	LastPolledAt      *time.Time `db:"last_polled_at" json:"last_polled_at"`
	Active            bool       `db:"active" json:"active"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// PollInterval returns the effective polling interval.
func (s *Source) PollInterval() time.Duration {
	hours := s.PollIntervalHours
	if hours <= 0 {
		hours = DefaultPollIntervalHours
	}
	return time.Duration(hours) * time.Hour
}
