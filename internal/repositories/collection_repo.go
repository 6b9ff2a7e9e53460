package repositories

import "storefront/internal/models"

// CollectionRepository defines the interface for collection data access and
// for linking products into collections.
type CollectionRepository interface {
	GetAll() ([]models.Collection, error)
	GetByID(id string) (*models.Collection, error)
	GetBySlug(slug string) (*models.Collection, error)
	Create(collection *models.Collection) error
	Update(collection *models.Collection) error
	Delete(id string) error
	AddProduct(collectionID, productID string) error
	RemoveProduct(collectionID, productID string) error
	Products(collectionID string) ([]models.Product, error)
}
