package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usermgmt/backend/internal/model"
)

func createUserReq(email string, tenantID *int64) model.CreateUserRequest {
	return model.CreateUserRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     email,
		Password:  "cobol-forever",
		Role:      model.RoleManager,
		TenantID:  tenantID,
	}
}

func TestUserServiceCRUD(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tenant, err := env.tenant.Create(ctx, model.TenantRequest{Name: "Navy", Address: "Arlington"})
	require.NoError(t, err)

	user, err := env.users.Create(ctx, createUserReq("grace@example.com", &tenant.ID))
	require.NoError(t, err)
	require.NotNil(t, user.Tenant)
	assert.Equal(t, "Navy", user.Tenant.Name)

	_, err = env.auth.Login(ctx, "grace@example.com", "cobol-forever")
	require.NoError(t, err, "created users can log in")

	list, err := env.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = env.users.Update(ctx, user.ID, model.UpdateUserRequest{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.example", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	got, err := env.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace@navy.example", got.Email)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Nil(t, got.Tenant)

	require.NoError(t, env.users.Delete(ctx, user.ID))
	_, err = env.users.Get(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.users.Delete(ctx, user.ID), ErrNotFound)
}

func TestUserServiceErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.users.Create(ctx, createUserReq("grace@example.com", nil))
	require.NoError(t, err)

	_, err = env.users.Create(ctx, createUserReq("grace@example.com", nil))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	missing := int64(777)
	_, err = env.users.Create(ctx, createUserReq("other@example.com", &missing))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Tenant not found", verr.Message)

	err = env.users.Update(ctx, 9999, model.UpdateUserRequest{
		FirstName: "X", LastName: "Y", Email: "x@example.com", Role: model.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
