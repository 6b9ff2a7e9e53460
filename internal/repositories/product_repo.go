package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
// Soft-deleted products are invisible to every read.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
