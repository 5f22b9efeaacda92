// Package repository fetches lead rows from the hosted Postgres lead store.
package repository

import (
	"context"
	"fmt"
	"time"

	"leadspeed/internal/conversion/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads leads from the configured table. The query is unfiltered
// and unpaginated: the lead store contract is fetch-all.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// New creates a lead repository for the given table. The table name is
// validated at config load time.
func New(pool *pgxpool.Pool, table string) *Repository {
	return &Repository{pool: pool, table: table}
}

// FetchLeads returns every usable lead row. Rows missing an email or a
// creation timestamp are dropped rather than failing the whole call; only
// query and scan errors fail the fetch. Timestamps are normalized to UTC so
// lead and event clocks subtract on a common reference.
func (r *Repository) FetchLeads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT email, created_at
		FROM %s
	`, r.table))
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var email *string
		var createdAt *time.Time
		if err := rows.Scan(&email, &createdAt); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		lead, ok := normalizeRow(email, createdAt)
		if !ok {
			continue
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("read lead rows: %w", rows.Err())
	}

	return leads, nil
}

// normalizeRow converts a raw row into a Lead, reporting false for rows that
// cannot participate in the email join.
func normalizeRow(email *string, createdAt *time.Time) (domain.Lead, bool) {
	if email == nil || *email == "" || createdAt == nil {
		return domain.Lead{}, false
	}
	return domain.Lead{
		Email:     *email,
		CreatedAt: createdAt.UTC(),
	}, true
}
