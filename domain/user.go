package domain

import "time"

// User is the sole persistent entity of the identity pipeline.
//
// A user starts inactive and holds an activation token; activation flips
// Inactive exactly once and clears the token. The two always move together:
// a user is inactive iff it holds a non-empty activation token.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Inactive        bool      `json:"inactive"`
	ActivationToken string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && !u.Inactive
}
