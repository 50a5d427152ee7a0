// @title           User Management API
// @version         1.0
// @description     Users, tenants and cookie-based JWT sessions with refresh token rotation.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" then a space and your JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/usermgmt/backend/internal/config"
	"github.com/usermgmt/backend/internal/db"
	"github.com/usermgmt/backend/internal/handler"
	"github.com/usermgmt/backend/internal/limiter"
	"github.com/usermgmt/backend/internal/logging"
	"github.com/usermgmt/backend/internal/service"
	"github.com/usermgmt/backend/internal/token"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 토큰 코덱은 시작 시 한 번만 만든다. 설정이 잘못되면 기동하지 않음
	codec, err := token.NewCodec(token.Config{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return err
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}
	store := db.New(pool)

	if purged, err := store.DeleteExpiredRefreshTokens(ctx); err != nil {
		log.Warn("failed to purge expired refresh tokens", "error", err)
	} else if purged > 0 {
		log.Info("purged expired refresh tokens", "count", purged)
	}

	loginLimiter, closeLimiter := newLoginLimiter(ctx, cfg.Redis, log)
	defer closeLimiter()

	hasher := service.NewBcryptHasher(bcrypt.DefaultCost)
	ledger := service.NewRefreshLedger(store, codec.RefreshTTL(), log)
	gate := service.NewTokenGate(codec, ledger)
	authSvc := service.NewAuthService(store, ledger, codec, hasher, loginLimiter, log)
	userSvc := service.NewUserService(store, hasher, log)
	tenantSvc := service.NewTenantService(store, log)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, "Admin", "User", cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	gin.SetMode(cfg.Server.GinMode)
	router := handler.NewRouter(handler.RouterDeps{
		Gate: gate,
		Auth: handler.NewAuthHandler(authSvc, handler.CookieConfig{
			Domain:        cfg.Auth.CookieDomain,
			Secure:        cfg.Auth.CookieSecure,
			AccessMaxAge:  int(codec.AccessTTL().Seconds()),
			RefreshMaxAge: int(codec.RefreshTTL().Seconds()),
		}),
		Users:       handler.NewUserHandler(userSvc),
		Tenants:     handler.NewTenantHandler(tenantSvc),
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLoginLimiter falls back to no throttling when Redis is not configured
// or not reachable.
func newLoginLimiter(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (limiter.LoginLimiter, func()) {
	if cfg.Addr == "" {
		return limiter.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, login throttling disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return limiter.Noop{}, func() {}
	}

	log.Info("login throttling enabled", "max_attempts", cfg.MaxLoginAttempts, "window", cfg.LockoutWindow)
	return limiter.NewRedisLimiter(client, cfg.MaxLoginAttempts, cfg.LockoutWindow), func() { _ = client.Close() }
}
