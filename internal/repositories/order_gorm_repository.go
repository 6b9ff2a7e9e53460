package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func withOrderTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items").
		Preload("Items.ProductVariant").
		Preload("Addresses")
}

// GetAll retrieves all orders, oldest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Scopes(withOrderTree).Order("created_at, id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items and addresses.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Scopes(withOrderTree).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByCustomer retrieves every order placed by a customer, oldest first.
func (r *GORMOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Scopes(withOrderTree).Where("customer_id = ?", customerID).Order("created_at, id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// Create inserts an order together with its items and addresses in one
// transaction. Item variants are referenced, never written, and children
// carrying the ID of an existing row fail the create.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) > 0 {
			for i := range order.Items {
				order.Items[i].OrderID = order.ID
			}
			if err := tx.Omit(clause.Associations).Create(&order.Items).Error; err != nil {
				return fmt.Errorf("items: %w", err)
			}
		}
		if len(order.Addresses) > 0 {
			for i := range order.Addresses {
				order.Addresses[i].OrderID = order.ID
			}
			if err := tx.Create(&order.Addresses).Error; err != nil {
				return fmt.Errorf("addresses: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}
