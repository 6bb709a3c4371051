package repositories

import (
	"context"

	"github.com/pkg/errors"

	"product-catalog/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the document store behind the catalog. Ids that are
// syntactically invalid for the backend are reported as ErrProductNotFound.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context, newestFirst bool) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// FindByCategory matches category exactly, oldest first.
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
	Ping(ctx context.Context) error
}
