package models

import "time"

// User is an account record. PasswordHash holds an argon2id
// hash and must never be serialized into an API response.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
