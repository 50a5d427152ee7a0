package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usermgmt/backend/internal/model"
)

func newTestCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()
	c, err := NewCodec(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    365 * 24 * time.Hour,
		Now:           now,
	})
	require.NoError(t, err)
	return c
}

func TestSignAndVerifyAccess(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)
	tenant := int64(9)

	tok, err := c.SignAccess(Payload{UserID: 42, Role: model.RoleManager, TenantID: &tenant})
	require.NoError(t, err)

	claims, err := c.VerifyAccess(tok)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, model.RoleManager, claims.Role)
	require.NotNil(t, claims.TenantID())
	assert.Equal(t, int64(9), *claims.TenantID())
	assert.Empty(t, claims.TokenID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestSignAccessWithoutTenant(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	tok, err := c.SignAccess(Payload{UserID: 1, Role: model.RoleCustomer})
	require.NoError(t, err)

	claims, err := c.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID())
	assert.Empty(t, claims.Tenant)
}

func TestSignAndVerifyRefresh(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	tok, err := c.SignRefresh(Payload{UserID: 5, Role: model.RoleAdmin, TokenID: 77})
	require.NoError(t, err)

	claims, err := c.VerifyRefresh(tok)
	require.NoError(t, err)

	rid, err := claims.RecordID()
	require.NoError(t, err)
	assert.Equal(t, int64(77), rid)
	assert.WithinDuration(t, claims.IssuedAt.Add(365*24*time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestSignRefreshRequiresRecordID(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	_, err := c.SignRefresh(Payload{UserID: 5, Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	access, err := c.SignAccess(Payload{UserID: 1, Role: model.RoleCustomer})
	require.NoError(t, err)
	refresh, err := c.SignRefresh(Payload{UserID: 1, Role: model.RoleCustomer, TokenID: 3})
	require.NoError(t, err)

	_, err = c.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	signer := newTestCodec(t, func() time.Time { return issued })
	verifier := newTestCodec(t, func() time.Time { return issued.Add(2 * time.Hour) })

	tok, err := signer.SignAccess(Payload{UserID: 1, Role: model.RoleCustomer})
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	claims := Claims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = c.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	claims := Claims{Role: model.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = c.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := c.VerifyAccess(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestNewCodecMisconfigured(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing-access", Config{RefreshSecret: "r", AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"missing-refresh", Config{AccessSecret: "a", AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"same-secret", Config{AccessSecret: "s", RefreshSecret: "s", AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"zero-ttl", Config{AccessSecret: "a", RefreshSecret: "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.cfg)
			assert.ErrorIs(t, err, ErrMisconfigured)
		})
	}
}
