// Package model defines the persisted record types used throughout the
// application. Structs only, no behaviour: the repository layer reads and
// writes them, the service layer enforces the rules around them.
package model

import "time"

// User is a registered account. Exactly one user exists per email.
//
// The salt is generated once at signup and never rotated; the stored
// password is the salted digest, never the plaintext. Both fields are
// excluded from JSON so they cannot leak through a serialized response.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Salt           string    `json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}
