package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func refreshRows(id, userID int64, expires time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
		AddRow(id, userID, expires, time.Now())
}

func TestInsertRefreshToken(t *testing.T) {
	repo, mock := newMockDB(t)
	expires := time.Now().Add(time.Hour)

	mock.ExpectQuery(`INSERT INTO refresh_tokens`).
		WithArgs(int64(1), expires).
		WillReturnRows(refreshRows(10, 1, expires))

	got, err := repo.InsertRefreshToken(context.Background(), 1, expires)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRefreshTokenMatchesOwner(t *testing.T) {
	repo, mock := newMockDB(t)
	expires := time.Now().Add(time.Hour)

	mock.ExpectQuery(`SELECT id, user_id, expires_at, created_at\s+FROM refresh_tokens\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(refreshRows(10, 1, expires))

	got, err := repo.GetRefreshToken(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRefreshTokenNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`FROM refresh_tokens`).
		WithArgs(int64(10), int64(2)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetRefreshToken(context.Background(), 10, 2)
	assert.True(t, IsNoRows(err))
}

func TestDeleteRefreshTokenIsIdempotent(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.DeleteRefreshToken(context.Background(), 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateRefreshTokenCommits(t *testing.T) {
	repo, mock := newMockDB(t)
	expires := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(10), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`INSERT INTO refresh_tokens`).
		WithArgs(int64(1), expires).
		WillReturnRows(refreshRows(11, 1, expires))
	mock.ExpectCommit()

	got, err := repo.RotateRefreshToken(context.Background(), 10, 1, expires)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateRefreshTokenRollsBackOnDeleteFailure(t *testing.T) {
	repo, mock := newMockDB(t)
	expires := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM refresh_tokens`).
		WithArgs(int64(10), int64(1)).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := repo.RotateRefreshToken(context.Background(), 10, 1, expires)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 이미 회전되었거나 다른 사용자의 레코드면 새 레코드를 만들지 않는다
func TestRotateRefreshTokenRejectsMissingRecord(t *testing.T) {
	repo, mock := newMockDB(t)
	expires := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(10), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	_, err := repo.RotateRefreshToken(context.Background(), 10, 1, expires)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expires_at < NOW\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteExpiredRefreshTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
