package models

import "gorm.io/gorm"

// Order represents a customer order. Prices are in minor currency units.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:text"`
	CustomerID    string      `json:"customer_id" gorm:"type:text;not null"`
	CustomerName  *string     `json:"customer_name,omitempty" gorm:"type:text"`
	TotalPrice    int         `json:"total_price" gorm:"not null"`
	ShippingPrice int         `json:"shipping_price" gorm:"not null"`
	CreatedAt     string      `json:"created_at" gorm:"type:text;not null"`
	UpdatedAt     string      `json:"updated_at" gorm:"type:text;not null"`
	Items         []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Addresses     []Address   `json:"addresses,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	created(&o.CreatedAt, o.UpdatedAt)
	return nil
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	touch(&o.UpdatedAt)
	return nil
}

// OrderItem is a single line within an order.
type OrderItem struct {
	ID               string          `json:"id" gorm:"primaryKey;type:text"`
	OrderID          string          `json:"order_id" gorm:"type:text;not null"`
	ProductVariantID string          `json:"product_variant_id" gorm:"type:text;not null"`
	Quantity         int             `json:"quantity" gorm:"not null"`
	ProductVariant   *ProductVariant `json:"product_variant,omitempty" gorm:"foreignKey:ProductVariantID"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// AddressType tells a shipping address from a billing one.
type AddressType = string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

// Address is a shipping or billing address attached to an order. Type is
// stored as free text; see KnownAddressType.
type Address struct {
	ID       string      `json:"id" gorm:"primaryKey;type:text"`
	OrderID  string      `json:"order_id" gorm:"type:text;not null"`
	Type     AddressType `json:"type" gorm:"column:type;type:text;not null"`
	Line1    string      `json:"line1" gorm:"column:line1;type:text;not null"`
	Line2    *string     `json:"line2,omitempty" gorm:"column:line2;type:text"`
	City     string      `json:"city" gorm:"type:text;not null"`
	Province string      `json:"province" gorm:"type:text;not null"`
	Country  string      `json:"country" gorm:"type:text;not null"`
	Postal   string      `json:"postal" gorm:"type:text;not null"`
}

func (Address) TableName() string { return "addresses" }

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// KnownAddressType reports whether t is one of the conventional values.
// Nothing in storage enforces it.
func KnownAddressType(t string) bool {
	return t == AddressShipping || t == AddressBilling
}
