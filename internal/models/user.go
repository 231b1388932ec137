package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleID     *string   `json:"googleId,omitempty"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Occupation   string    `json:"occupation,omitempty"`
	HowHeard     string    `json:"howHeard,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OAuthIdentity is what a verified third-party access token tells us
// about its holder.
type OAuthIdentity struct {
	Subject string
	Email   string
	Name    string
}
