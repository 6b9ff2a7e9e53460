package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// withProductTree preloads images, variants with their options, and the
// collections a product belongs to.
func withProductTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images").
		Preload("Variants").
		Preload("Variants.Options").
		Preload("Collections", "collection_id IN (SELECT id FROM collections WHERE deleted_at IS NULL)").
		Preload("Collections.Collection", models.NotDeleted)
}

// GetAll retrieves all live products, oldest first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Scopes(models.NotDeleted, withProductTree).Order("created_at, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Scopes(models.NotDeleted, withProductTree).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its slug.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Scopes(models.NotDeleted, withProductTree).First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with slug %s %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// Create inserts a product together with any images, variants, options and
// collection links attached to it, in one transaction. Children are plain
// inserts: a child carrying the ID of an existing row fails the whole create
// instead of being moved under the new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		if len(product.Images) > 0 {
			for i := range product.Images {
				product.Images[i].ProductID = product.ID
			}
			if err := tx.Create(&product.Images).Error; err != nil {
				return fmt.Errorf("images: %w", err)
			}
		}
		for i := range product.Variants {
			variant := &product.Variants[i]
			variant.ProductID = product.ID
			if err := tx.Omit(clause.Associations).Create(variant).Error; err != nil {
				return fmt.Errorf("variant %s: %w", variant.Name, err)
			}
			if len(variant.Options) == 0 {
				continue
			}
			for j := range variant.Options {
				variant.Options[j].VariantID = variant.ID
			}
			if err := tx.Create(&variant.Options).Error; err != nil {
				return fmt.Errorf("options of variant %s: %w", variant.Name, err)
			}
		}
		if len(product.Collections) > 0 {
			for i := range product.Collections {
				product.Collections[i].ProductID = product.ID
			}
			if err := tx.Omit(clause.Associations).Create(&product.Collections).Error; err != nil {
				return fmt.Errorf("collection links: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes every column of a live product except its ID and creation
// time. Associations are left untouched.
func (r *GORMProductRepository) Update(product *models.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product with ID %q %w for update", product.ID, ErrNotFound)
	}
	res := r.db.Model(product).
		Select("*").
		Omit("id", "created_at", "deleted_at", clause.Associations).
		Where("id = ? AND deleted_at IS NULL", product.ID).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w for update", product.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product by stamping deleted_at.
func (r *GORMProductRepository) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("product with ID %q %w for deletion", id, ErrNotFound)
	}
	now := models.Now()
	res := r.db.Model(&models.Product{ID: id}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w for deletion", id, ErrNotFound)
	}
	return nil
}
