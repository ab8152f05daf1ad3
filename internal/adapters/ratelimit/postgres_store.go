package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"provider-locator-service/internal/ports"
)

// PostgresCounterStore implements the fixed-window counter on a rate_limits
// table, used when no Redis address is configured.
//
// The increment-or-reset is a single upsert statement, so concurrent
// callers for the same (identifier, endpoint) pair never race: the row
// either gains one attempt inside the current window or is replaced by a
// fresh window counting from 1.
type PostgresCounterStore struct {
	DB *sql.DB
}

func NewPostgresCounterStore(db *sql.DB) *PostgresCounterStore {
	return &PostgresCounterStore{DB: db}
}

func (s *PostgresCounterStore) Increment(
	ctx context.Context,
	identifier, endpoint string,
	window time.Duration,
) (ports.WindowCount, error) {
	if s.DB == nil {
		return ports.WindowCount{}, errors.New("postgres counter store: db is nil")
	}

	q := `
	INSERT INTO rate_limits (identifier, endpoint, attempt_count, window_start)
	VALUES ($1, $2, 1, now())
	ON CONFLICT (identifier, endpoint) DO UPDATE
	SET attempt_count = CASE
			WHEN rate_limits.window_start <= now() - $3::interval THEN 1
			ELSE rate_limits.attempt_count + 1
		END,
		window_start = CASE
			WHEN rate_limits.window_start <= now() - $3::interval THEN now()
			ELSE rate_limits.window_start
		END
	RETURNING attempt_count,
		EXTRACT(EPOCH FROM (window_start + $3::interval - now()))::float8;
	`

	interval := fmt.Sprintf("%d milliseconds", window.Milliseconds())

	var count int64
	var resetSeconds float64
	row := s.DB.QueryRowContext(ctx, q, identifier, endpoint, interval)
	if err := row.Scan(&count, &resetSeconds); err != nil {
		return ports.WindowCount{}, fmt.Errorf(
			"postgres counter store: upsert rate_limits identifier=%q endpoint=%q: %w",
			identifier, endpoint, err,
		)
	}

	resetIn := time.Duration(resetSeconds * float64(time.Second))
	if resetIn < 0 {
		resetIn = 0
	}

	return ports.WindowCount{Count: count, ResetIn: resetIn}, nil
}
