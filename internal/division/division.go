// Package division exposes the administrative-division hierarchy to the
// rest of the system. The hierarchy data itself is external; this package
// only answers "at which level does this division id sit", which the
// service uses to confirm a domicile's declared level.
package division

import (
	"context"
	"sync"

	"registrar/pkg/platform/sentinel"
)

// Resolver answers level lookups for division ids.
type Resolver interface {
	// Level returns the hierarchy level (1 = province, 2 = city,
	// 3 = district) for the given division id, or sentinel.ErrNotFound.
	Level(ctx context.Context, divisionID string) (int, error)
}

// StaticResolver serves lookups from an in-memory table, seeded at startup
// from whatever hierarchy snapshot the deployment ships.
type StaticResolver struct {
	mu     sync.RWMutex
	levels map[string]int
}

// NewStaticResolver builds a resolver over the given id → level table.
func NewStaticResolver(levels map[string]int) *StaticResolver {
	table := make(map[string]int, len(levels))
	for k, v := range levels {
		table[k] = v
	}
	return &StaticResolver{levels: table}
}

func (r *StaticResolver) Level(_ context.Context, divisionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	level, ok := r.levels[divisionID]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return level, nil
}

// Seed adds or replaces entries, for tests and admin reloads.
func (r *StaticResolver) Seed(levels map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range levels {
		r.levels[k] = v
	}
}
