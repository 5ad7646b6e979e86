package models

import "time"

// Task is a to-do item. Every task belongs to exactly one user;
// DueDate and Position are optional and stay nil until set.
type Task struct {
	ID        string
	UserID    string
	Text      string
	Completed bool
	DueDate   *time.Time
	Position  *int32
	CreatedAt time.Time
	UpdatedAt time.Time
}
