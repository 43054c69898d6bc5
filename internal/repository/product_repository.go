package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"brand-catalog/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductBrandMissing = errors.New("product references a brand that does not exist")
)

// ProductRepository exposes the product side of the brand relationship
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	CountByBrand(ctx context.Context, brandID uuid.UUID) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a product linked to a brand
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, brand_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.BrandID,
		product.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductBrandMissing
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// CountByBrand returns how many products reference the given brand
func (r *productRepository) CountByBrand(ctx context.Context, brandID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE brand_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, brandID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products for brand: %w", err)
	}

	return count, nil
}
