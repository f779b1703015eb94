package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is the local projection of the organization directory, kept in sync
// by the kafka worker.
type User struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	Nickname       string    `db:"nickname"`
	Email          string    `db:"email"`
	AvatarURL      string    `db:"avatar_url"`
	Role           string    `db:"role"`
	IsActive       bool      `db:"is_active"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *User) IsPrivileged() bool {
	return u.Role == RoleAdmin
}

// UserParams is the directory payload shape, both for kafka events and
// for the HTTP directory client.
type UserParams struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Nickname       string    `json:"nickname" db:"nickname"`
	Email          string    `json:"email" db:"email"`
	AvatarURL      string    `json:"avatar_url" db:"avatar_url"`
	Role           string    `json:"role" db:"role"`
	IsActive       bool      `json:"is_active" db:"is_active"`
}
