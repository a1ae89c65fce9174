// Package store defines the persistence boundaries for company state and
// applications, with in-memory and PostgreSQL implementations in the
// subpackages.
package store

import (
	"context"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
)

// CompanyStore persists durable company snapshots.
//
// Update runs its callback under the store's lock (mutex or FOR UPDATE) so
// validate-and-replace is atomic; the callback returns the next snapshot or
// an error to abort.
type CompanyStore interface {
	Create(ctx context.Context, state *models.CompanyState) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.CompanyState, error)
	Update(ctx context.Context, companyID id.CompanyID,
		fn func(current *models.CompanyState) (*models.CompanyState, error)) (*models.CompanyState, error)
}

// ApplicationStore persists application envelopes.
//
// CreateIfNonePending enforces the one-pending-application-per-company
// rule, returning sentinel.ErrConflict when a SUBMITTED application already
// exists for the company.
type ApplicationStore interface {
	CreateIfNonePending(ctx context.Context, app *models.CompanyApplication) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.CompanyApplication, error)
	ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.CompanyApplication, error)
	// Transition moves an application from one status to another,
	// returning sentinel.ErrInvalidState when the current status differs
	// from the expected one.
	Transition(ctx context.Context, appID id.ApplicationID,
		from, to models.ApplicationStatus) (*models.CompanyApplication, error)
}
