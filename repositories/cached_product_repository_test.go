package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"product-catalog/models"
)

func newCachedRepo(t *testing.T) (*CachedProductRepository, *MemoryProductRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		MaxRetries:  -1,
		DialTimeout: time.Second,
	})
	t.Cleanup(func() { rdb.Close() })

	inner := NewMemoryProductRepository()
	return NewCachedProductRepository(inner, rdb, time.Minute, zap.NewNop()), inner, mr
}

func TestCachedRepositoryInvalidatesOnWrite(t *testing.T) {
	repo, inner, mr := newCachedRepo(t)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seed(t, inner, "a", "basins", t0)

	first, err := repo.FindAll(ctx, true)
	if err != nil || len(first) != 1 {
		t.Fatalf("FindAll = %v, %v", names(first), err)
	}
	if !mr.Exists("products:all:desc") {
		t.Fatal("list was not cached")
	}

	// Written behind the cache's back: still served from Redis.
	seed(t, inner, "b", "basins", t0.Add(time.Minute))
	cached, _ := repo.FindAll(ctx, true)
	if len(cached) != 1 {
		t.Errorf("expected the cached list, got %v", names(cached))
	}

	if _, err := repo.FindByCategory(ctx, "basins"); err != nil {
		t.Fatal(err)
	}

	p := models.Product{Name: "c", Images: models.StringList{"c.jpg"}, CreatedAt: t0.Add(2 * time.Minute)}
	if err := repo.Insert(ctx, &p); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	for _, key := range []string{"products:all:desc", "products:category:basins"} {
		if mr.Exists(key) {
			t.Errorf("%s survived a write", key)
		}
	}

	fresh, _ := repo.FindAll(ctx, true)
	if len(fresh) != 3 || fresh[0].Name != "c" {
		t.Errorf("after insert = %v", names(fresh))
	}
}

func TestCachedRepositoryUpdateAndDeleteInvalidate(t *testing.T) {
	repo, inner, mr := newCachedRepo(t)
	ctx := context.Background()
	p := seed(t, inner, "a", "basins", time.Now())

	repo.FindByCategory(ctx, "basins")
	p.Name = "renamed"
	if _, err := repo.Update(ctx, &p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if mr.Exists("products:category:basins") {
		t.Error("category list survived an update")
	}

	listed, _ := repo.FindByCategory(ctx, "basins")
	if len(listed) != 1 || listed[0].Name != "renamed" {
		t.Errorf("after update = %v", names(listed))
	}

	if _, err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("products:category:basins") {
		t.Error("category list survived a delete")
	}
}

func TestCachedRepositoryFallsThroughWhenRedisIsDown(t *testing.T) {
	repo, inner, mr := newCachedRepo(t)
	ctx := context.Background()
	seed(t, inner, "a", "basins", time.Now())
	mr.Close()

	products, err := repo.FindAll(ctx, true)
	if err != nil || len(products) != 1 {
		t.Fatalf("FindAll = %v, %v", names(products), err)
	}

	p := models.Product{Name: "b", Images: models.StringList{"b.jpg"}, CreatedAt: time.Now()}
	if err := repo.Insert(ctx, &p); err != nil {
		t.Fatalf("Insert with Redis down: %v", err)
	}
	products, err = repo.FindAll(ctx, true)
	if err != nil || len(products) != 2 {
		t.Errorf("FindAll = %v, %v", names(products), err)
	}
}
