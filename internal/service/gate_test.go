package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usermgmt/backend/internal/token"
)

func TestGateRejectsCrossedTokens(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	session, err := env.auth.Register(ctx, registerReq("ada@example.com"))
	require.NoError(t, err)

	_, err = env.gate.Access(session.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.gate.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.gate.Access("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGateRejectsUnknownRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	session, err := env.auth.Register(ctx, registerReq("ada@example.com"))
	require.NoError(t, err)

	forged, err := env.codec.SignRefresh(token.Payload{UserID: session.User.ID, Role: session.User.Role, TokenID: 424242})
	require.NoError(t, err)

	_, err = env.gate.Refresh(ctx, forged)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGateRejectsRecordOfAnotherUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	ada, err := env.auth.Register(ctx, registerReq("ada@example.com"))
	require.NoError(t, err)
	bob, err := env.auth.Register(ctx, registerReq("bob@example.com"))
	require.NoError(t, err)

	adaClaims, err := env.codec.VerifyRefresh(ada.RefreshToken)
	require.NoError(t, err)
	recordID, err := adaClaims.RecordID()
	require.NoError(t, err)

	forged, err := env.codec.SignRefresh(token.Payload{UserID: bob.User.ID, Role: bob.User.Role, TokenID: recordID})
	require.NoError(t, err)

	_, err = env.gate.Refresh(ctx, forged)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGateFailsClosedOnLedgerError(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	session, err := env.auth.Register(ctx, registerReq("ada@example.com"))
	require.NoError(t, err)

	env.store.ErrLedgerLookup = errors.New("connection refused")
	_, err = env.gate.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGateRejectsExpiredAccessToken(t *testing.T) {
	env := newTestEnv(t, nil)

	past := time.Now().Add(-2 * time.Hour)
	old, err := token.NewCodec(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Now:           func() time.Time { return past },
	})
	require.NoError(t, err)

	expired, err := old.SignAccess(token.Payload{UserID: 1, Role: "customer"})
	require.NoError(t, err)

	_, err = env.gate.Access(expired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
