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
	ErrBrandNotFound    = errors.New("brand not found")
	ErrBrandNameTaken   = errors.New("brand with this name already exists")
	ErrBrandHasProducts = errors.New("brand is referenced by products")
)

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	List(ctx context.Context) ([]*domain.Brand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	FindByName(ctx context.Context, name string) (*domain.Brand, error)
	Create(ctx context.Context, brand *domain.Brand) error
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type brandRepository struct {
	db *sql.DB
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

const brandColumns = `id, name, description, created_at, updated_at`

func scanBrand(row interface{ Scan(dest ...any) error }) (*domain.Brand, error) {
	brand := &domain.Brand{}
	var description sql.NullString

	if err := row.Scan(
		&brand.ID,
		&brand.Name,
		&description,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		brand.Description = &description.String
	}

	return brand, nil
}

// List retrieves all brands, newest first
func (r *brandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := []*domain.Brand{}
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

// FindByID retrieves a brand by ID
func (r *brandRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`

	brand, err := scanBrand(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand by ID: %w", err)
	}

	return brand, nil
}

// FindByName retrieves a brand by its exact (case-sensitive) name
func (r *brandRepository) FindByName(ctx context.Context, name string) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE name = $1`

	brand, err := scanBrand(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand by name: %w", err)
	}

	return brand, nil
}

// Create inserts a new brand and fills in the timestamps assigned by the database
func (r *brandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	query := `
		INSERT INTO brands (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, brand.ID, brand.Name, brand.Description).
		Scan(&brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBrandNameTaken
		}
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

// Update writes name and description of an existing brand
func (r *brandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	query := `
		UPDATE brands
		SET name = $2, description = $3
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query, brand.ID, brand.Name, brand.Description).
		Scan(&brand.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBrandNotFound
		}
		if isUniqueViolation(err) {
			return ErrBrandNameTaken
		}
		return fmt.Errorf("failed to update brand: %w", err)
	}

	return nil
}

// Delete removes a brand; products still pointing at it make the delete fail
func (r *brandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM brands WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrBrandHasProducts
		}
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBrandNotFound
	}

	return nil
}
