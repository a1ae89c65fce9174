package company

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// Postgres persists company snapshots as JSONB documents. The registry is a
// snapshot store, not a query surface, so a document column beats a wide
// relational spread here; reporting reads go through the application trail.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed company store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema for reference and migrations:
//
//	CREATE TABLE companies (
//	    company_id UUID PRIMARY KEY,
//	    state      JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);

func (s *Postgres) Create(ctx context.Context, state *models.CompanyState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal company state: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies (company_id, state, updated_at) VALUES ($1, $2, $3)`,
		state.CompanyID.String(), doc, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, companyID id.CompanyID) (*models.CompanyState, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM companies WHERE company_id = $1`,
		companyID.String()).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select company: %w", err)
	}
	var state models.CompanyState
	if err := json.Unmarshal(doc, &state); err != nil {
		return nil, fmt.Errorf("unmarshal company state: %w", err)
	}
	return &state, nil
}

// Update loads the row FOR UPDATE inside a transaction so the callback's
// validate-and-replace is atomic across instances.
func (s *Postgres) Update(ctx context.Context, companyID id.CompanyID,
	fn func(current *models.CompanyState) (*models.CompanyState, error)) (*models.CompanyState, error) {

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	var doc []byte
	err = tx.QueryRow(ctx,
		`SELECT state FROM companies WHERE company_id = $1 FOR UPDATE`,
		companyID.String()).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock company: %w", err)
	}

	var current models.CompanyState
	if err := json.Unmarshal(doc, &current); err != nil {
		return nil, fmt.Errorf("unmarshal company state: %w", err)
	}

	next, err := fn(&current)
	if err != nil {
		return nil, err
	}

	nextDoc, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("marshal company state: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE companies SET state = $2, updated_at = $3 WHERE company_id = $1`,
		companyID.String(), nextDoc, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return next, nil
}
