package model

import (
	"strings"
	"time"
)

// User never serializes its password hash.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Tenant       *Tenant   `json:"tenant"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TenantID returns the id of the user's tenant, or nil.
func (u *User) TenantID() *int64 {
	if u == nil || u.Tenant == nil {
		return nil
	}
	id := u.Tenant.ID
	return &id
}

// NewUser is the storage-level input for inserting a user.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	TenantID     *int64
}

// CreateUserRequest - 관리자용 사용자 생성 요청
type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      Role   `json:"role" binding:"required,oneof=admin manager customer"`
	TenantID  *int64 `json:"tenantId" binding:"required_unless=Role admin"`
}

func (r *CreateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
	r.Role = Role(strings.TrimSpace(string(r.Role)))
}

// UpdateUserRequest - 사용자 수정 요청 (비밀번호는 변경하지 않음)
type UpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      Role   `json:"role" binding:"required,oneof=admin manager customer"`
	TenantID  *int64 `json:"tenantId" binding:"required_unless=Role admin"`
}

func (r *UpdateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = Role(strings.TrimSpace(string(r.Role)))
}

type UserListResponse struct {
	Data  []User `json:"data"`
	Total int    `json:"total"`
}
