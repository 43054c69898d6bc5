package domain

import (
	"time"

	"github.com/google/uuid"
)

// Brand represents a product manufacturer or label in the catalog
type Brand struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Product is the slice of the catalog product this service needs to guard brand deletion
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BrandID   uuid.UUID `json:"brandId" db:"brand_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
