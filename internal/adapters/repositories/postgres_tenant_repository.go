package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/ports"
)

// Postgres-backed implementation of the TenantRepository port.
type PostgresTenantRepository struct{ DB *sql.DB }

func NewPostgresTenantRepository(db *sql.DB) *PostgresTenantRepository {
	return &PostgresTenantRepository{DB: db}
}

// Retrieve a tenant record by id.
func (r *PostgresTenantRepository) GetTenant(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if r.DB == nil {
		return nil, errors.New("postgres tenant repository: DB is nil")
	}

	q := `
	SELECT id, is_active
	FROM tenants
	WHERE id = $1;
	`

	var tenant domain.Tenant
	row := r.DB.QueryRowContext(ctx, q, id)
	if err := row.Scan(&tenant.ID, &tenant.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant: query tenants table: %w", err)
	}

	return &tenant, nil
}
