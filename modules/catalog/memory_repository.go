package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/catalog-service/domain/product"
	"gorm.io/gorm"
)

// MemoryRepository is an in-process ProductRepository for tests and local runs.
// It enforces sku uniqueness the way the SQL schema does.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]*product.Product
	nextID   int64
	now      func() time.Time
}

// Compile-time interface check.
var _ ProductRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: make(map[int64]*product.Product),
		now:      time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.SKU != nil && r.skuTaken(*p.SKU, 0) {
		return gorm.ErrDuplicatedKey
	}

	r.nextID++
	now := r.now()
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := clone(p)
	r.products[p.ID] = stored
	return nil
}

func (r *MemoryRepository) CountAvailable(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, p := range r.products {
		if p.Available {
			total++
		}
	}
	return total, nil
}

func (r *MemoryRepository) ListAvailable(_ context.Context, offset, limit int) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Available {
			available = append(available, *clone(p))
		}
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].ID < available[j].ID
	})

	if offset >= len(available) {
		return []product.Product{}, nil
	}
	end := offset + limit
	if end > len(available) {
		end = len(available)
	}
	return available[offset:end], nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) FindAvailableByID(_ context.Context, id int64) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok || !p.Available {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, patch product.Patch) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.SKU != nil && r.skuTaken(*patch.SKU, id) {
		return nil, gorm.ErrDuplicatedKey
	}

	patch.Apply(p)
	p.UpdatedAt = r.now()
	return clone(p), nil
}

func (r *MemoryRepository) MarkUnavailable(_ context.Context, id int64) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Available = false
	p.UpdatedAt = r.now()
	return clone(p), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// skuTaken reports whether another product already uses sku. Caller holds the lock.
func (r *MemoryRepository) skuTaken(sku string, exceptID int64) bool {
	for id, p := range r.products {
		if id != exceptID && p.SKU != nil && *p.SKU == sku {
			return true
		}
	}
	return false
}

func clone(p *product.Product) *product.Product {
	c := *p
	if p.SKU != nil {
		sku := *p.SKU
		c.SKU = &sku
	}
	return &c
}
