package user

import "time"

// User is an account record. Email is stored lowercased and unique.
// PasswordHash is a bcrypt digest; plaintext passwords never leave the
// auth service.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsFirstTime  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller identity attached to a request
// after token verification.
type Principal struct {
	UserID string
	Email  string
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name        *string
	IsFirstTime *bool
}
