package repositories

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"product-catalog/models"
)

// MemoryProductRepository keeps products in process memory. It backs local
// development without a database and the package tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	seq      map[string]int
	next     int
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: map[string]models.Product{},
		seq:      map[string]int{},
	}
}

func (r *MemoryProductRepository) Insert(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := primitive.NewObjectID().Hex()
	stored := product.Clone()
	stored.ID = id
	r.products[id] = stored
	r.seq[id] = r.next
	r.next++

	product.ID = id
	return nil
}

func (r *MemoryProductRepository) FindAll(ctx context.Context, newestFirst bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.collect(func(models.Product) bool { return true })
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	out := p.Clone()
	return &out, nil
}

func (r *MemoryProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Product) bool { return p.Category == category }), nil
}

func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil, ErrProductNotFound
	}
	stored := product.Clone()
	r.products[product.ID] = stored

	out := stored.Clone()
	return &out, nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	delete(r.products, id)
	delete(r.seq, id)
	return &p, nil
}

func (r *MemoryProductRepository) Ping(ctx context.Context) error {
	return nil
}

// collect returns matching products oldest first. Callers hold the lock.
func (r *MemoryProductRepository) collect(match func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range r.products {
		if match(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out
}
