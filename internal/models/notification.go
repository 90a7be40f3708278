package models

import "time"

// AdminNotification is an operator-facing alert row.
type AdminNotification struct {
	ID        int       `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`         // payment_completed, submission_rejected, ...
	Priority  string    `json:"priority" db:"priority"` // high, medium, low
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
