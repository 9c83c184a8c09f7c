package models

import "time"

// Urgency drives the colour coding of a task.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string
	UserID      string
	Text        string
	IsCompleted bool
	Urgency     Urgency
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
