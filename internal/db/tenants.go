package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/usermgmt/backend/internal/model"
)

func (db *Postgres) CreateTenant(ctx context.Context, req model.TenantRequest) (*model.Tenant, error) {
	query := `
		INSERT INTO tenants (name, address, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, address, created_at, updated_at
	`
	var t model.Tenant
	err := db.Pool.QueryRow(ctx, query, req.Name, req.Address).Scan(
		&t.ID,
		&t.Name,
		&t.Address,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (db *Postgres) GetTenantByID(ctx context.Context, id int64) (*model.Tenant, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	var t model.Tenant
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Address,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (db *Postgres) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, address, created_at, updated_at
		FROM tenants
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Tenant{}
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (db *Postgres) UpdateTenant(ctx context.Context, id int64, req model.TenantRequest) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE tenants
		SET name = $1, address = $2, updated_at = NOW()
		WHERE id = $3
	`, req.Name, req.Address, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) DeleteTenant(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
