package model

import (
	"strings"
	"time"
)

type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TenantRequest - 테넌트 생성/수정 요청
type TenantRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"required,max=255"`
}

func (r *TenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
}

type TenantListResponse struct {
	Data  []Tenant `json:"data"`
	Total int      `json:"total"`
}
