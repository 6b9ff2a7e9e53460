package models

import "gorm.io/gorm"

// Collection is a named grouping of products, such as a catalog category.
type Collection struct {
	ID          string              `json:"id" gorm:"primaryKey;type:text"`
	Name        string              `json:"name" gorm:"type:text;not null"`
	Description *string             `json:"description,omitempty" gorm:"type:text"`
	Slug        string              `json:"slug" gorm:"type:text;not null"`
	ImageURL    *string             `json:"image_url,omitempty" gorm:"column:image_url;type:text"`
	CreatedAt   string              `json:"created_at" gorm:"type:text;not null"`
	UpdatedAt   string              `json:"updated_at" gorm:"type:text;not null"`
	DeletedAt   *string             `json:"deleted_at,omitempty" gorm:"type:text"` // set on soft delete
	Products    []ProductCollection `json:"products,omitempty" gorm:"foreignKey:CollectionID"`
}

func (Collection) TableName() string { return "collections" }

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	created(&c.CreatedAt, c.UpdatedAt)
	return nil
}

func (c *Collection) BeforeSave(tx *gorm.DB) error {
	touch(&c.UpdatedAt)
	return nil
}

// IsDeleted reports whether the collection has been soft-deleted.
func (c *Collection) IsDeleted() bool {
	return c.DeletedAt != nil
}
