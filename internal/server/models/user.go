// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	// StudyStreak counts consecutive study days; shown to the client on login.
	StudyStreak  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
