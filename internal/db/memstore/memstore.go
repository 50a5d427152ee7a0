// Package memstore is an in-memory stand-in for the Postgres repositories.
// It returns the same pgx/pgconn errors as the real store so service code
// classifies them identically.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/usermgmt/backend/internal/model"
)

type userRow struct {
	user     model.User
	tenantID *int64
}

type Store struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*userRow
	tenants map[int64]*model.Tenant
	refresh map[int64]*model.RefreshToken
	Now     func() time.Time

	// Injected failures, returned by the matching operation when non-nil.
	ErrLedgerLookup error
	ErrLedgerInsert error
	ErrLedgerDelete error
	ErrUserLookup   error
}

func New() *Store {
	return &Store{
		users:   map[int64]*userRow{},
		tenants: map[int64]*model.Tenant{},
		refresh: map[int64]*model.RefreshToken{},
		Now:     time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) materialize(row *userRow) *model.User {
	u := row.user
	if row.tenantID != nil {
		if t, ok := s.tenants[*row.tenantID]; ok {
			tc := *t
			u.Tenant = &tc
		}
	}
	return &u
}

func (s *Store) CreateUser(_ context.Context, in model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.users {
		if row.user.Email == in.Email {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	if in.TenantID != nil {
		if _, ok := s.tenants[*in.TenantID]; !ok {
			return nil, &pgconn.PgError{Code: "23503"}
		}
	}

	now := s.Now()
	row := &userRow{
		user: model.User{
			ID:           s.id(),
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			Role:         in.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		tenantID: in.TenantID,
	}
	s.users[row.user.ID] = row
	return s.materialize(row), nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrUserLookup != nil {
		return nil, s.ErrUserLookup
	}
	row, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.materialize(row), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrUserLookup != nil {
		return nil, s.ErrUserLookup
	}
	for _, row := range s.users {
		if row.user.Email == email {
			return s.materialize(row), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []model.User{}
	for _, row := range s.users {
		list = append(list, *s.materialize(row))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, req model.UpdateUserRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	for otherID, other := range s.users {
		if otherID != id && other.user.Email == req.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	if req.TenantID != nil {
		if _, ok := s.tenants[*req.TenantID]; !ok {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	row.user.FirstName = req.FirstName
	row.user.LastName = req.LastName
	row.user.Email = req.Email
	row.user.Role = req.Role
	row.user.UpdatedAt = s.Now()
	row.tenantID = req.TenantID
	return nil
}

// DeleteUser cascades to the user's refresh token records.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	for rid, rt := range s.refresh {
		if rt.UserID == id {
			delete(s.refresh, rid)
		}
	}
	return nil
}

func (s *Store) CreateTenant(_ context.Context, req model.TenantRequest) (*model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	t := &model.Tenant{ID: s.id(), Name: req.Name, Address: req.Address, CreatedAt: now, UpdatedAt: now}
	s.tenants[t.ID] = t
	tc := *t
	return &tc, nil
}

func (s *Store) GetTenantByID(_ context.Context, id int64) (*model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	tc := *t
	return &tc, nil
}

func (s *Store) ListTenants(_ context.Context) ([]model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []model.Tenant{}
	for _, t := range s.tenants {
		list = append(list, *t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *Store) UpdateTenant(_ context.Context, id int64, req model.TenantRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Name = req.Name
	t.Address = req.Address
	t.UpdatedAt = s.Now()
	return nil
}

// DeleteTenant detaches users from the tenant.
func (s *Store) DeleteTenant(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.tenants, id)
	for _, row := range s.users {
		if row.tenantID != nil && *row.tenantID == id {
			row.tenantID = nil
		}
	}
	return nil
}

func (s *Store) InsertRefreshToken(_ context.Context, userID int64, expiresAt time.Time) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrLedgerInsert != nil {
		return nil, s.ErrLedgerInsert
	}
	return s.insertRefresh(userID, expiresAt)
}

func (s *Store) insertRefresh(userID int64, expiresAt time.Time) (*model.RefreshToken, error) {
	if _, ok := s.users[userID]; !ok {
		return nil, &pgconn.PgError{Code: "23503"}
	}
	rt := &model.RefreshToken{ID: s.id(), UserID: userID, ExpiresAt: expiresAt, CreatedAt: s.Now()}
	s.refresh[rt.ID] = rt
	rc := *rt
	return &rc, nil
}

func (s *Store) GetRefreshToken(_ context.Context, id, userID int64) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrLedgerLookup != nil {
		return nil, s.ErrLedgerLookup
	}
	rt, ok := s.refresh[id]
	if !ok || rt.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	rc := *rt
	return &rc, nil
}

func (s *Store) DeleteRefreshToken(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrLedgerDelete != nil {
		return s.ErrLedgerDelete
	}
	delete(s.refresh, id)
	return nil
}

// RotateRefreshToken is all-or-nothing like the transactional Postgres version.
// The old record must exist and belong to userID.
func (s *Store) RotateRefreshToken(_ context.Context, oldTokenID, userID int64, expiresAt time.Time) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrLedgerInsert != nil {
		return nil, s.ErrLedgerInsert
	}
	if s.ErrLedgerDelete != nil {
		return nil, s.ErrLedgerDelete
	}
	old, ok := s.refresh[oldTokenID]
	if !ok || old.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	rt, err := s.insertRefresh(userID, expiresAt)
	if err != nil {
		return nil, err
	}
	delete(s.refresh, oldTokenID)
	return rt, nil
}

// RefreshTokenCount reports the number of ledger rows.
func (s *Store) RefreshTokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refresh)
}

// UserCount reports the number of users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
