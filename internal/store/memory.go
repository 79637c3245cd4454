package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/groblegark/catalog/internal/model"
)

// MemoryStore is an in-memory Store used in tests and as a lightweight
// backend for local development.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	users    map[string]model.User
	nextID   int64
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]model.Product),
		users:    make(map[string]model.User),
		nextID:   1,
	}
}

// SeedUser registers a user account.
func (s *MemoryStore) SeedUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Email] = u
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Product
	for _, p := range s.products {
		if !matchesFilter(p, filter) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	// Newest first, matching the snapshot contract.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(p model.Product, f model.ProductFilter) bool {
	if !f.IncludeInactive && !p.Active {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeactivateProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) Close() error { return nil }
