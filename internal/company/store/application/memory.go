package application

import (
	"context"
	"sort"
	"sync"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of the application
// store.
type InMemory struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]*models.CompanyApplication
}

// NewInMemory constructs an empty in-memory application store.
func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[id.ApplicationID]*models.CompanyApplication)}
}

func clone(app *models.CompanyApplication) *models.CompanyApplication {
	cp := *app
	return &cp
}

// CreateIfNonePending enforces the one-pending-application-per-company rule
// under the write lock, mirroring the partial unique index the Postgres
// store relies on.
func (s *InMemory) CreateIfNonePending(_ context.Context, app *models.CompanyApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apps {
		if existing.CompanyID == app.CompanyID && existing.Status == models.StatusSubmitted {
			return sentinel.ErrConflict
		}
	}
	s.apps[app.ID] = clone(app)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, appID id.ApplicationID) (*models.CompanyApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(app), nil
}

func (s *InMemory) ListByCompany(_ context.Context, companyID id.CompanyID) ([]*models.CompanyApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CompanyApplication
	for _, app := range s.apps {
		if app.CompanyID == companyID {
			out = append(out, clone(app))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Transition(_ context.Context, appID id.ApplicationID,
	from, to models.ApplicationStatus) (*models.CompanyApplication, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if app.Status != from {
		return nil, sentinel.ErrInvalidState
	}
	app.Status = to
	return clone(app), nil
}
