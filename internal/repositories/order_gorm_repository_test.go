package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

func TestOrderRepository_RoundTrip(t *testing.T) {
	db := setupDB(t)
	products := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	product := sampleProduct("linen-shirt")
	require.NoError(t, products.Create(product))
	variant := product.Variants[0]

	order := &models.Order{
		CustomerID:    "cus_123",
		CustomerName:  strPtr("Ada Lovelace"),
		TotalPrice:    8500,
		ShippingPrice: 500,
		Items: []models.OrderItem{
			{ProductVariantID: variant.ID, Quantity: 2},
		},
		Addresses: []models.Address{
			{Type: models.AddressShipping, Line1: "12 Analytical Way", Line2: strPtr("Flat 3"), City: "London", Province: "Greater London", Country: "GB", Postal: "N1 9GU"},
			{Type: models.AddressBilling, Line1: "1 Engine Road", City: "London", Province: "Greater London", Country: "GB", Postal: "N1 1AA"},
		},
	}
	require.NoError(t, orders.Create(order))
	assert.NotEmpty(t, order.ID)

	fetched, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.CustomerID, fetched.CustomerID)
	assert.Equal(t, order.CustomerName, fetched.CustomerName)
	assert.Equal(t, order.TotalPrice, fetched.TotalPrice)
	assert.Equal(t, order.ShippingPrice, fetched.ShippingPrice)
	assert.Equal(t, order.CreatedAt, fetched.CreatedAt)
	assert.Equal(t, order.UpdatedAt, fetched.UpdatedAt)

	require.Len(t, fetched.Items, 1)
	item := fetched.Items[0]
	assert.Equal(t, order.Items[0].ID, item.ID)
	assert.Equal(t, order.ID, item.OrderID)
	assert.Equal(t, variant.ID, item.ProductVariantID)
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.ProductVariant)
	assert.Equal(t, variant.Name, item.ProductVariant.Name)

	require.Len(t, fetched.Addresses, 2)
	byType := make(map[string]models.Address)
	for _, a := range fetched.Addresses {
		assert.Equal(t, order.ID, a.OrderID)
		byType[a.Type] = a
	}
	shipping := byType[models.AddressShipping]
	assert.Equal(t, "12 Analytical Way", shipping.Line1)
	require.NotNil(t, shipping.Line2)
	assert.Equal(t, "Flat 3", *shipping.Line2)
	assert.Equal(t, "N1 9GU", shipping.Postal)
	assert.Nil(t, byType[models.AddressBilling].Line2)
}

func TestOrderRepository_GetByCustomer(t *testing.T) {
	orders := repositories.NewGORMOrderRepository(setupDB(t))

	for _, customer := range []string{"cus_a", "cus_b", "cus_a"} {
		require.NoError(t, orders.Create(&models.Order{CustomerID: customer, TotalPrice: 1000, ShippingPrice: 0}))
	}

	mine, err := orders.GetByCustomer("cus_a")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, "cus_a", o.CustomerID)
		assert.Nil(t, o.CustomerName)
	}

	all, err := orders.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := orders.GetByCustomer("cus_z")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = orders.GetByID("no-such-order")
	assert.True(t, isNotFound(err))
	assert.Contains(t, err.Error(), "order with ID no-such-order not found")
}

// Address.type is free text: values outside shipping/billing are stored as
// given. Tightening this would need a CHECK constraint.
func TestOrderRepository_AddressTypeIsUnconstrained(t *testing.T) {
	orders := repositories.NewGORMOrderRepository(setupDB(t))

	order := &models.Order{
		CustomerID: "cus_gift",
		Addresses: []models.Address{
			{Type: "gift", Line1: "5 Surprise St", City: "Leeds", Province: "West Yorkshire", Country: "GB", Postal: "LS1 1AA"},
		},
	}
	require.NoError(t, orders.Create(order))

	fetched, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Addresses, 1)
	assert.Equal(t, "gift", fetched.Addresses[0].Type)
	assert.False(t, models.KnownAddressType(fetched.Addresses[0].Type))
}

func TestOrderRepository_CreateRejectsUnknownVariant(t *testing.T) {
	db := setupDB(t)
	orders := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		CustomerID: "cus_404",
		Items:      []models.OrderItem{{ProductVariantID: "no-such-variant", Quantity: 1}},
		Addresses: []models.Address{
			{Type: models.AddressShipping, Line1: "1 Nowhere Rd", City: "Leeds", Province: "West Yorkshire", Country: "GB", Postal: "LS1 1AA"},
		},
	}
	err := orders.Create(order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY constraint failed")

	// nothing from the failed create survives
	all, err := orders.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	var addresses int64
	require.NoError(t, db.Model(&models.Address{}).Count(&addresses).Error)
	assert.Zero(t, addresses)
}

func TestOrderRepository_CreateRejectsChildOfAnotherOrder(t *testing.T) {
	orders := repositories.NewGORMOrderRepository(setupDB(t))

	first := &models.Order{
		CustomerID: "cus_a",
		Addresses: []models.Address{
			{Type: models.AddressShipping, Line1: "1 First St", City: "York", Province: "North Yorkshire", Country: "GB", Postal: "YO1 1AA"},
			{Type: models.AddressBilling, Line1: "2 First St", City: "York", Province: "North Yorkshire", Country: "GB", Postal: "YO1 1AB"},
		},
	}
	require.NoError(t, orders.Create(first))

	second := &models.Order{
		CustomerID: "cus_b",
		Addresses: []models.Address{
			{ID: first.Addresses[0].ID, Type: models.AddressShipping, Line1: "9 Second St", City: "Hull", Province: "East Yorkshire", Country: "GB", Postal: "HU1 1AA"},
		},
	}
	assert.Error(t, orders.Create(second))

	fetched, err := orders.GetByID(first.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Addresses, 2)
	for _, a := range fetched.Addresses {
		assert.Equal(t, "York", a.City)
	}

	byCustomer, err := orders.GetByCustomer("cus_b")
	require.NoError(t, err)
	assert.Empty(t, byCustomer)
}
