package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/usermgmt/backend/internal/model"
)

const selectUser = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.role,
		u.created_at, u.updated_at,
		t.id, t.name, t.address, t.created_at, t.updated_at
	FROM users u
	LEFT JOIN tenants t ON t.id = u.tenant_id
`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user            model.User
		role            string
		tenantID        *int64
		tenantName      *string
		tenantAddress   *string
		tenantCreatedAt *time.Time
		tenantUpdatedAt *time.Time
	)
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&tenantID,
		&tenantName,
		&tenantAddress,
		&tenantCreatedAt,
		&tenantUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)

	if tenantID != nil {
		tenant := &model.Tenant{ID: *tenantID}
		if tenantName != nil {
			tenant.Name = *tenantName
		}
		if tenantAddress != nil {
			tenant.Address = *tenantAddress
		}
		if tenantCreatedAt != nil {
			tenant.CreatedAt = *tenantCreatedAt
		}
		if tenantUpdatedAt != nil {
			tenant.UpdatedAt = *tenantUpdatedAt
		}
		user.Tenant = tenant
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`
	var id int64
	if err := db.Pool.QueryRow(ctx, query,
		in.FirstName,
		in.LastName,
		in.Email,
		in.PasswordHash,
		string(in.Role),
		in.TenantID,
	).Scan(&id); err != nil {
		return nil, err
	}
	return db.GetUserByID(ctx, id)
}

func (db *Postgres) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, selectUser+`WHERE u.id = $1`, id))
}

// GetUserByEmail includes the password hash; callers must not serialize it.
func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, selectUser+`WHERE u.email = $1`, email))
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.Pool.Query(ctx, selectUser+`ORDER BY u.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *user)
	}
	return list, rows.Err()
}

func (db *Postgres) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, role = $4, tenant_id = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := db.Pool.Exec(ctx, query,
		req.FirstName,
		req.LastName,
		req.Email,
		string(req.Role),
		req.TenantID,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) DeleteUser(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
