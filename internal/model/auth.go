package model

import (
	"strings"
	"time"
)

// AuthUser is the identity attached to a request by the auth middleware.
type AuthUser struct {
	ID       int64
	Role     Role
	TenantID *int64
}

// RegisterRequest is the public sign-up body. Fields are validated in
// declaration order and only the first violation is reported.
// Role is caller-chosen, so anonymous self-registration can create admins.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      Role   `json:"role" binding:"omitempty,oneof=admin manager customer"`
}

func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
	r.Role = Role(strings.TrimSpace(string(r.Role)))
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
