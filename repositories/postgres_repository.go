package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"product-catalog/models"
)

// PostgresProductRepository stores each product as a JSONB document next to
// the columns it is queried and sorted by.
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Insert(ctx context.Context, product *models.Product) error {
	id := primitive.NewObjectID().Hex()
	stored := product.Clone()
	stored.ID = id

	doc, err := json.Marshal(stored)
	if err != nil {
		return errors.Wrap(err, "encode product")
	}

	query := `
		INSERT INTO products (id, category, created_at, updated_at, doc)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, id, stored.Category, stored.CreatedAt, stored.UpdatedAt, doc); err != nil {
		return errors.Wrap(err, "insert product")
	}
	product.ID = id
	return nil
}

func (r *PostgresProductRepository) FindAll(ctx context.Context, newestFirst bool) ([]models.Product, error) {
	query := `SELECT id, doc FROM products ORDER BY created_at ASC, id ASC`
	if newestFirst {
		query = `SELECT id, doc FROM products ORDER BY created_at DESC, id DESC`
	}
	return r.query(ctx, query)
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT id, doc FROM products WHERE id = $1`, id)
	return scanOne(row, "find product")
}

func (r *PostgresProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := `SELECT id, doc FROM products WHERE category = $1 ORDER BY created_at ASC, id ASC`
	return r.query(ctx, query, category)
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	doc, err := json.Marshal(product)
	if err != nil {
		return nil, errors.Wrap(err, "encode product")
	}

	query := `
		UPDATE products SET category = $2, updated_at = $3, doc = $4
		WHERE id = $1
		RETURNING id, doc
	`
	row := r.db.QueryRow(ctx, query, product.ID, product.Category, product.UpdatedAt, doc)
	return scanOne(row, "update product")
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING id, doc`, id)
	return scanOne(row, "delete product")
}

func (r *PostgresProductRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresProductRepository) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		p, err := decodeDocument(id, doc)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate products")
	}
	return products, nil
}

func scanOne(row pgx.Row, msg string) (*models.Product, error) {
	var (
		id  string
		doc []byte
	)
	if err := row.Scan(&id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, msg)
	}
	return decodeDocument(id, doc)
}

func decodeDocument(id string, doc []byte) (*models.Product, error) {
	var p models.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, errors.Wrapf(err, "decode product %s", id)
	}
	p.ID = id
	if p.Images == nil {
		p.Images = models.StringList{}
	}
	return &p, nil
}
