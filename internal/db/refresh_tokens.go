package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/usermgmt/backend/internal/model"
)

// InsertRefreshToken - 새 refresh token 레코드 생성, 생성된 id 반환
func (db *Postgres) InsertRefreshToken(ctx context.Context, userID int64, expiresAt time.Time) (*model.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (user_id, expires_at, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, user_id, expires_at, created_at
	`
	var token model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, userID, expiresAt).Scan(
		&token.ID,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetRefreshToken looks up a record by id and owner.
// Returns pgx.ErrNoRows when either does not match.
func (db *Postgres) GetRefreshToken(ctx context.Context, id, userID int64) (*model.RefreshToken, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE id = $1 AND user_id = $2
	`
	var token model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, id, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteRefreshToken is idempotent: deleting a missing row is not an error.
func (db *Postgres) DeleteRefreshToken(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	return err
}

// RotateRefreshToken deletes the old record and inserts its replacement in a
// single transaction. The delete is scoped to the owner and must hit exactly
// one row; otherwise pgx.ErrNoRows is returned and nothing is written, so a
// record can be rotated at most once.
func (db *Postgres) RotateRefreshToken(ctx context.Context, oldTokenID, userID int64, expiresAt time.Time) (*model.RefreshToken, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1 AND user_id = $2`, oldTokenID, userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		return nil, pgx.ErrNoRows
	}

	var token model.RefreshToken
	if err = tx.QueryRow(ctx, `
		INSERT INTO refresh_tokens (user_id, expires_at, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, user_id, expires_at, created_at
	`, userID, expiresAt).Scan(
		&token.ID,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteExpiredRefreshTokens - 만료된 레코드 정리, 삭제된 행 수 반환
func (db *Postgres) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
