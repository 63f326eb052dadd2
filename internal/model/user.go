// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered user who can own tasks.
//
// Name and Email are stored in normalized form: trimmed, and for Email
// also lower-cased. Email is unique across all users (checked at creation).
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
