package domain

import (
	"time"
)

// User holds the profile surface the matching engine needs. Registration and
// authentication live outside this service.
type User struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	DateOfBirth   time.Time `db:"date_of_birth" json:"date_of_birth"`
	Qualification string    `db:"qualification" json:"qualification"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Preference is a user's subscription criteria for one exam category.
// A user may hold several, one per category of interest.
type Preference struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"user_id"`
	Category  string      `db:"category" json:"category"`
	MinAge    *int        `db:"min_age" json:"min_age"`
	MaxAge    *int        `db:"max_age" json:"max_age"`
	Locations JSONBStrings `db:"locations" json:"locations"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
