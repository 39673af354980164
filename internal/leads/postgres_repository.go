package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository mirrors lead records into the relational store that
// backs the admin console. It implements the same contract as the DynamoDB
// repository so either can serve as the persistence gateway.
type PostgresRepository struct {
	pool pgxPool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool pgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Put inserts a new row.
func (r *PostgresRepository) Put(ctx context.Context, lead *Lead) error {
	if lead == nil {
		return errors.New("leads: lead cannot be nil")
	}
	query := `
		INSERT INTO leads (id, name, email, phone, service_type, description,
		    fecha, created_at, created_at_ms, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.ServiceType,
		lead.Description,
		lead.Date,
		lead.CreatedAt,
		lead.CreatedAtEpochMillis,
		lead.Status,
		lead.Source,
	); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a single lead row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, name, email, phone, service_type, description,
		       fecha, created_at, created_at_ms, status, source
		FROM leads
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.ServiceType,
		&lead.Description,
		&lead.Date,
		&lead.CreatedAt,
		&lead.CreatedAtEpochMillis,
		&lead.Status,
		&lead.Source,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return &lead, nil
}

// ListRecent returns up to limit leads, newest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*Lead, error) {
	query := `
		SELECT id, name, email, phone, service_type, description,
		       fecha, created_at, created_at_ms, status, source
		FROM leads
		ORDER BY created_at_ms DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.ServiceType,
			&lead.Description,
			&lead.Date,
			&lead.CreatedAt,
			&lead.CreatedAtEpochMillis,
			&lead.Status,
			&lead.Source,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	return out, rows.Err()
}
