package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-catalog/models"
)

func seed(t *testing.T, r *MemoryProductRepository, name, category string, at time.Time) models.Product {
	t.Helper()
	p := models.Product{Name: name, Category: category, Images: models.StringList{name + ".jpg"}, CreatedAt: at, UpdatedAt: at}
	if err := r.Insert(context.Background(), &p); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if p.ID == "" {
		t.Fatal("Insert did not assign an id")
	}
	return p
}

func TestMemoryRepositoryOrdering(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seed(t, r, "a", "basins", t0)
	seed(t, r, "b", "taps", t0.Add(time.Minute))
	seed(t, r, "c", "basins", t0.Add(2*time.Minute))

	newest, _ := r.FindAll(ctx, true)
	if len(newest) != 3 || newest[0].Name != "c" || newest[2].Name != "a" {
		t.Errorf("newest first order wrong: %v", names(newest))
	}
	oldest, _ := r.FindAll(ctx, false)
	if oldest[0].Name != "a" {
		t.Errorf("oldest first order wrong: %v", names(oldest))
	}

	basins, _ := r.FindByCategory(ctx, "basins")
	if got := names(basins); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("FindByCategory = %v", got)
	}

	none, err := r.FindByCategory(ctx, "Basins")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("case-sensitive miss: %v, %v", none, err)
	}
}

func TestMemoryRepositoryIsolation(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()
	p := seed(t, r, "a", "basins", time.Now())

	got, err := r.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	got.Images[0] = "mutated.jpg"

	again, _ := r.FindByID(ctx, p.ID)
	if again.Images[0] != "a.jpg" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestMemoryRepositoryUpdateDelete(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()
	p := seed(t, r, "a", "basins", time.Now())

	p.Name = "renamed"
	updated, err := r.Update(ctx, &p)
	if err != nil || updated.Name != "renamed" {
		t.Fatalf("Update = %v, %v", updated, err)
	}

	missing := models.Product{ID: "nope"}
	if _, err := r.Update(ctx, &missing); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Update missing: %v", err)
	}

	deleted, err := r.Delete(ctx, p.ID)
	if err != nil || deleted.Name != "renamed" {
		t.Fatalf("Delete = %v, %v", deleted, err)
	}
	if _, err := r.FindByID(ctx, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("FindByID after delete: %v", err)
	}
	if _, err := r.Delete(ctx, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("second Delete: %v", err)
	}
}

func names(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
