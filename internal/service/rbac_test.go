package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usermgmt/backend/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		required []model.Role
		wantErr  bool
	}{
		{name: "no requirement", role: model.RoleCustomer},
		{name: "admin only as admin", role: model.RoleAdmin, required: []model.Role{model.RoleAdmin}},
		{name: "admin only as manager", role: model.RoleManager, required: []model.Role{model.RoleAdmin}, wantErr: true},
		{name: "any of several", role: model.RoleManager, required: []model.Role{model.RoleAdmin, model.RoleManager}},
		{name: "empty role", role: "", required: []model.Role{model.RoleCustomer}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.role, tt.required...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(0)
	hash, err := h.Hash("secret-password")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)
	assert.True(t, h.Compare(hash, "secret-password"))
	assert.False(t, h.Compare(hash, "other-password"))
	assert.False(t, h.Compare("not-a-hash", "secret-password"))
}
