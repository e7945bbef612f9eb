package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// MemoryRepository keeps profiles in process memory. Used by tests and the
// "memory" store setting.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: make(map[string]domain.Profile),
		now:      time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.Name]; ok {
		return domain.ErrProfileExists
	}

	now := r.now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.store(profile)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[profile.Name]
	if !ok {
		return domain.ErrProfileNotFound
	}

	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = r.now().UTC()
	r.store(profile)
	return nil
}

func (r *MemoryRepository) Put(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	profile.CreatedAt = now
	if existing, ok := r.profiles[profile.Name]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	profile.UpdatedAt = now
	r.store(profile)
	return nil
}

// store must be called with r.mu held.
func (r *MemoryRepository) store(profile *domain.Profile) {
	stored := *profile
	stored.Embedding = atStoredPrecision(profile.Embedding)
	r.profiles[profile.Name] = stored
}

func (r *MemoryRepository) Get(_ context.Context, name string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.profiles[name]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	profile := stored
	profile.Embedding = slices.Clone(stored.Embedding)
	return &profile, nil
}

func (r *MemoryRepository) Delete(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[name]; !ok {
		return false, nil
	}
	delete(r.profiles, name)
	return true, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *MemoryRepository) All(_ context.Context) (map[string]domain.Embedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[string]domain.Embedding, len(r.profiles))
	for name, profile := range r.profiles {
		all[name] = slices.Clone(profile.Embedding)
	}
	return all, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

var _ ProfileRepository = (*MemoryRepository)(nil)
