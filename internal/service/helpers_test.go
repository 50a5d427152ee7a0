package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/usermgmt/backend/internal/config"
	"github.com/usermgmt/backend/internal/db/memstore"
	"github.com/usermgmt/backend/internal/limiter"
	"github.com/usermgmt/backend/internal/logging"
	"github.com/usermgmt/backend/internal/token"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store  *memstore.Store
	codec  *token.Codec
	ledger *RefreshLedger
	gate   *TokenGate
	auth   *AuthService
	users  *UserService
	tenant *TenantService
}

func discardLogger() *slog.Logger {
	return logging.NewWithWriter(config.LoggingConfig{Level: "debug"}, io.Discard)
}

func newTestEnv(t *testing.T, lim limiter.LoginLimiter) *testEnv {
	t.Helper()

	codec, err := token.NewCodec(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	log := discardLogger()
	store := memstore.New()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	ledger := NewRefreshLedger(store, codec.RefreshTTL(), log)

	return &testEnv{
		store:  store,
		codec:  codec,
		ledger: ledger,
		gate:   NewTokenGate(codec, ledger),
		auth:   NewAuthService(store, ledger, codec, hasher, lim, log),
		users:  NewUserService(store, hasher, log),
		tenant: NewTenantService(store, log),
	}
}
