package models

import "time"

// Objective is a flashcard prompt attached to a note.
type Objective struct {
	ID         string `json:"id,omitempty"`
	Text       string `json:"text"`
	IsMastered bool   `json:"isMastered"`
}

type Note struct {
	ID         string
	UserID     string
	Title      string
	Content    string
	Subject    string
	Tags       []string
	Objectives []Objective
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
