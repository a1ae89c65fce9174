package company

import (
	"context"
	"sync"

	"registrar/internal/company/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of the company
// store. Snapshots are deep-copied on the way in and out so callers never
// alias stored state.
type InMemory struct {
	mu        sync.RWMutex
	companies map[id.CompanyID]*models.CompanyState
}

// NewInMemory constructs an empty in-memory company store.
func NewInMemory() *InMemory {
	return &InMemory{companies: make(map[id.CompanyID]*models.CompanyState)}
}

func (s *InMemory) Create(_ context.Context, state *models.CompanyState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.companies[state.CompanyID]; exists {
		return sentinel.ErrConflict
	}
	s.companies[state.CompanyID] = state.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, companyID id.CompanyID) (*models.CompanyState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return state.Clone(), nil
}

// Update holds the write lock across the callback so validate-and-replace
// is atomic with respect to concurrent approvals.
func (s *InMemory) Update(_ context.Context, companyID id.CompanyID,
	fn func(current *models.CompanyState) (*models.CompanyState, error)) (*models.CompanyState, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next, err := fn(current.Clone())
	if err != nil {
		return nil, err
	}
	s.companies[companyID] = next.Clone()
	return next.Clone(), nil
}
