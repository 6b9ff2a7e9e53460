package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{
		db: db,
	}
}

// GetAll retrieves all live collections ordered by name.
func (r *GORMCollectionRepository) GetAll() ([]models.Collection, error) {
	var collections []models.Collection
	if err := r.db.Scopes(models.NotDeleted).Order("name, id").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to get all collections: %w", err)
	}
	return collections, nil
}

// GetByID retrieves a single collection by its ID.
func (r *GORMCollectionRepository) GetByID(id string) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.Scopes(models.NotDeleted).First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collection with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection by ID %s: %w", id, err)
	}
	return &collection, nil
}

// GetBySlug retrieves a single collection by its slug.
func (r *GORMCollectionRepository) GetBySlug(slug string) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.Scopes(models.NotDeleted).First(&collection, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collection with slug %s %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection by slug %s: %w", slug, err)
	}
	return &collection, nil
}

// Create inserts a new collection.
func (r *GORMCollectionRepository) Create(collection *models.Collection) error {
	if err := r.db.Omit(clause.Associations).Create(collection).Error; err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Update writes every column of a live collection except its ID and
// creation time.
func (r *GORMCollectionRepository) Update(collection *models.Collection) error {
	if collection.ID == "" {
		return fmt.Errorf("collection with ID %q %w for update", collection.ID, ErrNotFound)
	}
	res := r.db.Model(collection).
		Select("*").
		Omit("id", "created_at", "deleted_at", clause.Associations).
		Where("id = ? AND deleted_at IS NULL", collection.ID).
		Updates(collection)
	if res.Error != nil {
		return fmt.Errorf("failed to update collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection with ID %s %w for update", collection.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a collection. Its product links are kept.
func (r *GORMCollectionRepository) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("collection with ID %q %w for deletion", id, ErrNotFound)
	}
	now := models.Now()
	res := r.db.Model(&models.Collection{ID: id}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to delete collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection with ID %s %w for deletion", id, ErrNotFound)
	}
	return nil
}

// AddProduct links a live product into a live collection. Linking twice is
// a no-op.
func (r *GORMCollectionRepository) AddProduct(collectionID, productID string) error {
	var count int64
	if err := r.db.Model(&models.Collection{}).Scopes(models.NotDeleted).Where("id = ?", collectionID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up collection %s: %w", collectionID, err)
	}
	if count == 0 {
		return fmt.Errorf("collection with ID %s %w", collectionID, ErrNotFound)
	}
	if err := r.db.Model(&models.Product{}).Scopes(models.NotDeleted).Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up product %s: %w", productID, err)
	}
	if count == 0 {
		return fmt.Errorf("product with ID %s %w", productID, ErrNotFound)
	}

	link := models.ProductCollection{ProductID: productID, CollectionID: collectionID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&link).Error; err != nil {
		return fmt.Errorf("failed to add product %s to collection %s: %w", productID, collectionID, err)
	}
	return nil
}

// RemoveProduct unlinks a product from a collection.
func (r *GORMCollectionRepository) RemoveProduct(collectionID, productID string) error {
	res := r.db.Where("collection_id = ? AND product_id = ?", collectionID, productID).Delete(&models.ProductCollection{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove product %s from collection %s: %w", productID, collectionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s in collection %s %w", productID, collectionID, ErrNotFound)
	}
	return nil
}

// Products lists the live products linked to a collection, ordered by name.
func (r *GORMCollectionRepository) Products(collectionID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Scopes(withProductTree).
		Joins("JOIN product_collections ON product_collections.product_id = products.id").
		Where("product_collections.collection_id = ? AND products.deleted_at IS NULL", collectionID).
		Order("products.name, products.id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products for collection %s: %w", collectionID, err)
	}
	return products, nil
}
