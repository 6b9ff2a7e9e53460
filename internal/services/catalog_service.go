package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CatalogService groups product and collection access for callers that work
// with the catalog as a whole, such as seeding.
type CatalogService struct {
	products    repositories.ProductRepository
	collections repositories.CollectionRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, collections repositories.CollectionRepository) *CatalogService {
	return &CatalogService{
		products:    products,
		collections: collections,
	}
}

// CollectionView is a collection together with its live products.
type CollectionView struct {
	models.Collection
	Products []models.Product `json:"products"`
}

// ListProducts retrieves all live products.
func (s *CatalogService) ListProducts() ([]models.Product, error) {
	return s.products.GetAll()
}

// GetProduct retrieves a single product by its slug.
func (s *CatalogService) GetProduct(slug string) (*models.Product, error) {
	return s.products.GetBySlug(slug)
}

// CreateProduct creates a product with its nested images and variants, then
// links it into each named collection. Every collection must already exist.
func (s *CatalogService) CreateProduct(product *models.Product, collectionSlugs ...string) error {
	collectionIDs := make([]string, 0, len(collectionSlugs))
	for _, slug := range collectionSlugs {
		collection, err := s.collections.GetBySlug(slug)
		if err != nil {
			return fmt.Errorf("cannot place product in collection %s: %w", slug, err)
		}
		collectionIDs = append(collectionIDs, collection.ID)
	}

	if err := s.products.Create(product); err != nil {
		return err
	}

	for _, id := range collectionIDs {
		if err := s.collections.AddProduct(id, product.ID); err != nil {
			return err
		}
	}
	return nil
}

// CreateCollection creates a new collection.
func (s *CatalogService) CreateCollection(collection *models.Collection) error {
	return s.collections.Create(collection)
}

// CollectionWithProducts retrieves a collection by slug with its live
// products.
func (s *CatalogService) CollectionWithProducts(slug string) (*CollectionView, error) {
	collection, err := s.collections.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	products, err := s.collections.Products(collection.ID)
	if err != nil {
		return nil, err
	}
	return &CollectionView{Collection: *collection, Products: products}, nil
}

// DeleteProduct soft-deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.products.Delete(id)
}
