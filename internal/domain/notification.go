package domain

import (
	"time"
)

// NotSpecified is the placeholder stored when a scraped field is missing.
// Portal pages rarely carry every field, so most text columns fall back to it.
const NotSpecified = "Not specified"

// NotificationDraft is an adapter-produced candidate notification. It is
// never persisted directly; the orchestrator normalizes it into a
// Notification keyed by (title, source URL).
type NotificationDraft struct {
	Title            string
	Organization     string
	SourceURL        string
	PDFURL           string
	NotificationDate *time.Time
	LastDateToApply  *time.Time
	AgeLimit         string
	Qualification    string
	Category         string
	Details          string
}

// Key returns the adapter-level dedupe key for the current scrape pass:
// the PDF URL when present, else title + notification date.
func (d *NotificationDraft) Key() string {
	if d.PDFURL != "" {
		return d.PDFURL
	}
	date := ""
	if d.NotificationDate != nil {
		date = d.NotificationDate.Format("2006-01-02")
	}
	return d.Title + "::" + date
}

// Notification is the canonical persisted record of a discovered opportunity.
// Identity key is (title, source_url); there is no stable external ID.
type Notification struct {
	ID               string     `db:"id" json:"id"`
	SourceURL        string     `db:"source_url" json:"source_url"`
	Title            string     `db:"title" json:"title"`
	Organization     string     `db:"organization" json:"organization"`
	NotificationDate *time.Time `db:"notification_date" json:"notification_date"`
	LastDateToApply  *time.Time `db:"last_date_to_apply" json:"last_date_to_apply"`
	AgeLimit         string     `db:"age_limit" json:"age_limit"`
	Qualification    string     `db:"qualification" json:"qualification"`
	Category         string     `db:"category" json:"category"`
	Details          string     `db:"details" json:"details"`
	PDFURL           *string    `db:"pdf_url" json:"pdf_url"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	Active           bool       `db:"active" json:"active"`
}
