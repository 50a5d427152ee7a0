package service

import (
	"context"
	"log/slog"

	"github.com/usermgmt/backend/internal/db"
	"github.com/usermgmt/backend/internal/model"
)

// userRepo - DB 인터페이스
type userRepo interface {
	CreateUser(ctx context.Context, in model.NewUser) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserService - 관리자용 사용자 관리 비즈니스 로직
type UserService struct {
	repo   userRepo
	hasher PasswordHasher
	log    *slog.Logger
}

func NewUserService(repo userRepo, hasher PasswordHasher, log *slog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !db.IsNoRows(err) {
		return nil, storageErr("find user by email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, model.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		TenantID:     req.TenantID,
	})
	if err != nil {
		return nil, mapUserWriteErr("create user", err)
	}

	s.log.InfoContext(ctx, "user has been created", "id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find user by id", err)
	}
	return user, nil
}

// Update changes profile, role and tenant. Access tokens already issued keep
// the old role until they expire.
func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) error {
	if err := s.repo.UpdateUser(ctx, id, req); err != nil {
		return mapUserWriteErr("update user", err)
	}
	s.log.InfoContext(ctx, "user has been updated", "id", id)
	return nil
}

// Delete removes the user; their refresh token records go with them.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return storageErr("delete user", err)
	}
	s.log.InfoContext(ctx, "user has been deleted", "id", id)
	return nil
}

func mapUserWriteErr(op string, err error) error {
	switch {
	case db.IsNoRows(err):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrDuplicateEmail
	case db.IsForeignKeyViolation(err):
		return NewValidationError("Tenant not found")
	default:
		return storageErr(op, err)
	}
}
