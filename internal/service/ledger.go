package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/usermgmt/backend/internal/db"
	"github.com/usermgmt/backend/internal/model"
)

// ledgerRepo - refresh_tokens 테이블 인터페이스
type ledgerRepo interface {
	InsertRefreshToken(ctx context.Context, userID int64, expiresAt time.Time) (*model.RefreshToken, error)
	GetRefreshToken(ctx context.Context, id, userID int64) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, id int64) error
	RotateRefreshToken(ctx context.Context, oldTokenID, userID int64, expiresAt time.Time) (*model.RefreshToken, error)
}

// RefreshLedger is the authority on refresh token validity: a signed
// refresh token is only honoured while its record exists here.
type RefreshLedger struct {
	repo ledgerRepo
	ttl  time.Duration
	now  func() time.Time
	log  *slog.Logger
}

func NewRefreshLedger(repo ledgerRepo, ttl time.Duration, log *slog.Logger) *RefreshLedger {
	return &RefreshLedger{repo: repo, ttl: ttl, now: time.Now, log: log}
}

func (l *RefreshLedger) Persist(ctx context.Context, userID int64) (*model.RefreshToken, error) {
	record, err := l.repo.InsertRefreshToken(ctx, userID, l.now().Add(l.ttl))
	if err != nil {
		return nil, storageErr("persist refresh token", err)
	}
	return record, nil
}

// IsRevoked fails closed: a lookup error counts as revoked.
func (l *RefreshLedger) IsRevoked(ctx context.Context, tokenID, subjectID int64) bool {
	_, err := l.repo.GetRefreshToken(ctx, tokenID, subjectID)
	if err == nil {
		return false
	}
	if !db.IsNoRows(err) {
		l.log.ErrorContext(ctx, "refresh token lookup failed", "token_id", tokenID, "error", err)
	}
	return true
}

// DeleteByID succeeds when the record is already gone.
func (l *RefreshLedger) DeleteByID(ctx context.Context, tokenID int64) error {
	if err := l.repo.DeleteRefreshToken(ctx, tokenID); err != nil {
		return storageErr("delete refresh token", err)
	}
	return nil
}

// Rotate replaces oldTokenID with a fresh record for userID. A record that is
// already gone (rotated or logged out concurrently) yields ErrUnauthorized.
func (l *RefreshLedger) Rotate(ctx context.Context, oldTokenID, userID int64) (*model.RefreshToken, error) {
	record, err := l.repo.RotateRefreshToken(ctx, oldTokenID, userID, l.now().Add(l.ttl))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, storageErr("rotate refresh token", err)
	}
	return record, nil
}
