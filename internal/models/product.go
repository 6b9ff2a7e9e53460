package models

import "gorm.io/gorm"

// Product represents a product in the store. Price and Discount are in
// minor currency units.
type Product struct {
	ID          string              `json:"id" gorm:"primaryKey;type:text"`
	Name        string              `json:"name" gorm:"type:text;not null"`
	Slug        string              `json:"slug" gorm:"type:text;not null"`
	Tagline     *string             `json:"tagline,omitempty" gorm:"type:text"`
	Description *string             `json:"description,omitempty" gorm:"type:text"`
	Price       int                 `json:"price" gorm:"not null"`
	Discount    int                 `json:"discount" gorm:"default:0"`
	ImageURL    string              `json:"image_url" gorm:"column:image_url;type:text;not null"`
	CreatedAt   string              `json:"created_at" gorm:"type:text;not null"`
	UpdatedAt   string              `json:"updated_at" gorm:"type:text;not null"`
	DeletedAt   *string             `json:"deleted_at,omitempty" gorm:"type:text"`
	Images      []ProductImage      `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	Variants    []ProductVariant    `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	Collections []ProductCollection `json:"collections,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	created(&p.CreatedAt, p.UpdatedAt)
	return nil
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	touch(&p.UpdatedAt)
	return nil
}

// IsDeleted reports whether the product has been soft-deleted.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// ProductImage is an additional image shown for a product.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:text"`
	ProductID string `json:"product_id" gorm:"type:text;not null"`
	URL       string `json:"url" gorm:"column:url;type:text;not null"`
}

func (ProductImage) TableName() string { return "product_images" }

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// ProductVariant is a purchasable configuration of a product with its own
// stock count.
type ProductVariant struct {
	ID        string          `json:"id" gorm:"primaryKey;type:text"`
	ProductID string          `json:"product_id" gorm:"type:text;not null"`
	Name      string          `json:"name" gorm:"type:text;not null"`
	Stock     int             `json:"stock" gorm:"not null"`
	Options   []VariantOption `json:"options,omitempty" gorm:"foreignKey:VariantID"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// VariantOption is a single name/value attribute of a variant, e.g.
// size=M.
type VariantOption struct {
	ID        string `json:"id" gorm:"primaryKey;type:text"`
	VariantID string `json:"variant_id" gorm:"type:text;not null"`
	Name      string `json:"name" gorm:"type:text;not null"`
	Value     string `json:"value" gorm:"type:text;not null"`
}

func (VariantOption) TableName() string { return "variant_options" }

func (o *VariantOption) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// ProductCollection links a product to a collection.
type ProductCollection struct {
	ProductID    string      `json:"product_id" gorm:"primaryKey;type:text;not null"`
	CollectionID string      `json:"collection_id" gorm:"primaryKey;type:text;not null"`
	Product      *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Collection   *Collection `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
}

func (ProductCollection) TableName() string { return "product_collections" }
