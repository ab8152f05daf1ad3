package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTenantsQuery := `
	CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createRateLimitsQuery := `
	CREATE TABLE IF NOT EXISTS rate_limits (
		identifier TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		attempt_count BIGINT NOT NULL DEFAULT 1,
		window_start TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (identifier, endpoint)
	);
	`

	statements := []string{
		createTenantsQuery,
		createRateLimitsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TenantSeed struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

// Populate the tenants table from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed tenants: read %q: %w", jsonPath, err)
	}

	var data []TenantSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed tenants: parse json: %w", err)
	}

	rows := make([]TenantSeed, 0, len(data))
	for i, item := range data {
		if _, err := uuid.Parse(item.ID); err != nil {
			return fmt.Errorf("seed tenants: invalid tenant id at index %d: %w", i+1, err)
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed tenants: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO tenants (id, is_active)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE
	SET is_active = EXCLUDED.is_active;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed tenants: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range rows {
		if _, err := stmt.Exec(t.ID, t.IsActive); err != nil {
			return fmt.Errorf("seed tenants: insert tenant id=%s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed tenants: commit tx: %w", err)
	}

	return nil
}
