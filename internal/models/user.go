package models

import "time"

// Role is a closed two-variant type. Anything else is rejected at the
// registration boundary and by a CHECK constraint in the schema.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Session is one row of the shared-store session backend. The raw token is
// never persisted, only its SHA-256 hash.
type Session struct {
	ID        string
	UserID    int64
	TokenHash []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}
