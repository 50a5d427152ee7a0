package service

import (
	"context"
	"log/slog"

	"github.com/usermgmt/backend/internal/db"
	"github.com/usermgmt/backend/internal/model"
)

// tenantRepo - DB 인터페이스
type tenantRepo interface {
	CreateTenant(ctx context.Context, req model.TenantRequest) (*model.Tenant, error)
	GetTenantByID(ctx context.Context, id int64) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	UpdateTenant(ctx context.Context, id int64, req model.TenantRequest) error
	DeleteTenant(ctx context.Context, id int64) error
}

// TenantService - 테넌트 CRUD 비즈니스 로직
type TenantService struct {
	repo tenantRepo
	log  *slog.Logger
}

func NewTenantService(repo tenantRepo, log *slog.Logger) *TenantService {
	return &TenantService{repo: repo, log: log}
}

func (s *TenantService) Create(ctx context.Context, req model.TenantRequest) (*model.Tenant, error) {
	tenant, err := s.repo.CreateTenant(ctx, req)
	if err != nil {
		return nil, storageErr("create tenant", err)
	}
	s.log.InfoContext(ctx, "tenant has been created", "id", tenant.ID)
	return tenant, nil
}

func (s *TenantService) List(ctx context.Context) ([]model.Tenant, error) {
	tenants, err := s.repo.ListTenants(ctx)
	if err != nil {
		return nil, storageErr("list tenants", err)
	}
	return tenants, nil
}

func (s *TenantService) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	tenant, err := s.repo.GetTenantByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find tenant", err)
	}
	return tenant, nil
}

func (s *TenantService) Update(ctx context.Context, id int64, req model.TenantRequest) error {
	if err := s.repo.UpdateTenant(ctx, id, req); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return storageErr("update tenant", err)
	}
	s.log.InfoContext(ctx, "tenant has been updated", "id", id)
	return nil
}

func (s *TenantService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTenant(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return storageErr("delete tenant", err)
	}
	s.log.InfoContext(ctx, "tenant has been deleted", "id", id)
	return nil
}
