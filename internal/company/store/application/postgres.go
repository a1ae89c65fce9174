package application

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

// Postgres persists application envelopes. The payload travels as a JSONB
// document; kind and status are lifted into columns for filtering and for
// the pending-uniqueness index.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed application store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema for reference and migrations:
//
//	CREATE TABLE applications (
//	    id         UUID PRIMARY KEY,
//	    company_id UUID NOT NULL,
//	    kind       TEXT NOT NULL,
//	    status     TEXT NOT NULL,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE UNIQUE INDEX applications_one_pending
//	    ON applications (company_id) WHERE status = 'SUBMITTED';

func (s *Postgres) CreateIfNonePending(ctx context.Context, app *models.CompanyApplication) error {
	payload, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO applications (id, company_id, kind, status, payload, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID.String(), app.CompanyID.String(), string(app.Kind), string(app.Status),
		payload, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, appID id.ApplicationID) (*models.CompanyApplication, error) {
	var payload []byte
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT payload, status FROM applications WHERE id = $1`,
		appID.String()).Scan(&payload, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select application: %w", err)
	}
	return decode(payload, status)
}

func (s *Postgres) ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.CompanyApplication, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload, status FROM applications WHERE company_id = $1 ORDER BY created_at`,
		companyID.String())
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*models.CompanyApplication
	for rows.Next() {
		var payload []byte
		var status string
		if err := rows.Scan(&payload, &status); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		app, err := decode(payload, status)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (s *Postgres) Transition(ctx context.Context, appID id.ApplicationID,
	from, to models.ApplicationStatus) (*models.CompanyApplication, error) {

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	var payload []byte
	var status string
	err = tx.QueryRow(ctx,
		`SELECT payload, status FROM applications WHERE id = $1 FOR UPDATE`,
		appID.String()).Scan(&payload, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock application: %w", err)
	}
	if models.ApplicationStatus(status) != from {
		return nil, sentinel.ErrInvalidState
	}

	if _, err := tx.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		appID.String(), string(to), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}

	app, err := decode(payload, string(to))
	if err != nil {
		return nil, err
	}
	return app, nil
}

func decode(payload []byte, status string) (*models.CompanyApplication, error) {
	var app models.CompanyApplication
	if err := json.Unmarshal(payload, &app); err != nil {
		return nil, fmt.Errorf("unmarshal application: %w", err)
	}
	app.Status = models.ApplicationStatus(status)
	return &app, nil
}
