package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brand-catalog/internal/domain"
	"brand-catalog/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrBrandNotFound      = errors.New("brand not found")
	ErrBrandAlreadyExists = errors.New("brand already exists")
	ErrBrandNameConflict  = errors.New("brand name already in use")
)

// BrandInUseError is returned when a brand still has products attached
type BrandInUseError struct {
	ProductCount int
}

func (e *BrandInUseError) Error() string {
	return fmt.Sprintf("cannot delete brand: it has %d associated product(s)", e.ProductCount)
}

// CreateBrandInput carries the fields accepted when creating a brand
type CreateBrandInput struct {
	Name        string
	Description *string
}

// UpdateBrandInput carries a partial update. A nil Name leaves the name untouched;
// Description is only applied when DescriptionSet is true, and a nil or blank
// value then clears it.
type UpdateBrandInput struct {
	Name           *string
	Description    *string
	DescriptionSet bool
}

// BrandService defines the interface for brand business logic
type BrandService interface {
	ListBrands(ctx context.Context) ([]*domain.Brand, error)
	GetBrand(ctx context.Context, id string) (*domain.Brand, error)
	CreateBrand(ctx context.Context, input CreateBrandInput) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, id string, input UpdateBrandInput) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
}

type brandService struct {
	brandRepo   repository.BrandRepository
	productRepo repository.ProductRepository
}

// NewBrandService creates a new instance of BrandService
func NewBrandService(brandRepo repository.BrandRepository, productRepo repository.ProductRepository) BrandService {
	return &brandService{
		brandRepo:   brandRepo,
		productRepo: productRepo,
	}
}

// ListBrands returns every brand, newest first
func (s *brandService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	brands, err := s.brandRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// GetBrand retrieves a brand by its identifier
func (s *brandService) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	return s.findBrand(ctx, id)
}

// CreateBrand validates name uniqueness and stores a new brand
func (s *brandService) CreateBrand(ctx context.Context, input CreateBrandInput) (*domain.Brand, error) {
	name := strings.TrimSpace(input.Name)

	taken, err := s.nameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrBrandAlreadyExists
	}

	brand := &domain.Brand{
		ID:          uuid.New(),
		Name:        name,
		Description: normalizeDescription(input.Description),
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		// Another request won the race between the lookup and the insert.
		if errors.Is(err, repository.ErrBrandNameTaken) {
			return nil, ErrBrandAlreadyExists
		}
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	return brand, nil
}

// UpdateBrand applies the supplied fields to an existing brand
func (s *brandService) UpdateBrand(ctx context.Context, id string, input UpdateBrandInput) (*domain.Brand, error) {
	brand, err := s.findBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != brand.Name {
			taken, err := s.nameTaken(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrBrandNameConflict
			}
			brand.Name = name
		}
	}

	if input.DescriptionSet {
		brand.Description = normalizeDescription(input.Description)
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		switch {
		case errors.Is(err, repository.ErrBrandNotFound):
			return nil, ErrBrandNotFound
		case errors.Is(err, repository.ErrBrandNameTaken):
			return nil, ErrBrandNameConflict
		}
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	return brand, nil
}

// DeleteBrand removes a brand that has no associated products
func (s *brandService) DeleteBrand(ctx context.Context, id string) error {
	brand, err := s.findBrand(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.productRepo.CountByBrand(ctx, brand.ID)
	if err != nil {
		return fmt.Errorf("failed to count brand products: %w", err)
	}
	if count > 0 {
		return &BrandInUseError{ProductCount: count}
	}

	if err := s.brandRepo.Delete(ctx, brand.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBrandNotFound):
			return ErrBrandNotFound
		case errors.Is(err, repository.ErrBrandHasProducts):
			// A product was attached after the count; report the fresh total.
			count, cerr := s.productRepo.CountByBrand(ctx, brand.ID)
			if cerr != nil || count == 0 {
				count = 1
			}
			return &BrandInUseError{ProductCount: count}
		}
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	return nil
}

func (s *brandService) findBrand(ctx context.Context, id string) (*domain.Brand, error) {
	brandID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		// No stored brand can carry an id that is not a UUID.
		return nil, ErrBrandNotFound
	}

	brand, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return brand, nil
}

func (s *brandService) nameTaken(ctx context.Context, name string) (bool, error) {
	_, err := s.brandRepo.FindByName(ctx, name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrBrandNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check brand name: %w", err)
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
