package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCollectionRepository is a mock implementation of repositories.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) GetAll() ([]models.Collection, error) {
	args := m.Called()
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) GetByID(id string) (*models.Collection, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) GetBySlug(slug string) (*models.Collection, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Create(collection *models.Collection) error {
	args := m.Called(collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) Update(collection *models.Collection) error {
	args := m.Called(collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCollectionRepository) AddProduct(collectionID, productID string) error {
	args := m.Called(collectionID, productID)
	return args.Error(0)
}

func (m *MockCollectionRepository) RemoveProduct(collectionID, productID string) error {
	args := m.Called(collectionID, productID)
	return args.Error(0)
}

func (m *MockCollectionRepository) Products(collectionID string) ([]models.Product, error) {
	args := m.Called(collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func TestCatalogService_ListProducts(t *testing.T) {
	products := new(MockProductRepository)
	service := services.NewCatalogService(products, new(MockCollectionRepository))

	expected := []models.Product{
		{ID: "1", Name: "Product A", Price: 1000},
		{ID: "2", Name: "Product B", Price: 2000},
	}
	products.On("GetAll").Return(expected, nil).Once()

	got, err := service.ListProducts()
	assert.NoError(t, err)
	assert.Equal(t, expected, got)
	products.AssertExpectations(t)
}

func TestCatalogService_GetProduct(t *testing.T) {
	products := new(MockProductRepository)
	service := services.NewCatalogService(products, new(MockCollectionRepository))

	expected := &models.Product{ID: "1", Slug: "mug"}
	products.On("GetBySlug", "mug").Return(expected, nil).Once()
	got, err := service.GetProduct("mug")
	assert.NoError(t, err)
	assert.Equal(t, expected, got)

	products.On("GetBySlug", "nope").Return(nil, fmt.Errorf("product with slug nope %w", repositories.ErrNotFound)).Once()
	got, err = service.GetProduct("nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Nil(t, got)
	products.AssertExpectations(t)
}

func TestCatalogService_CreateProductLinksCollections(t *testing.T) {
	products := new(MockProductRepository)
	collections := new(MockCollectionRepository)
	service := services.NewCatalogService(products, collections)

	product := &models.Product{Name: "Mug", Slug: "mug", Price: 1200}
	collections.On("GetBySlug", "kitchen").Return(&models.Collection{ID: "col-1"}, nil).Once()
	collections.On("GetBySlug", "gifts").Return(&models.Collection{ID: "col-2"}, nil).Once()
	products.On("Create", product).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = "prod-1"
	}).Return(nil).Once()
	collections.On("AddProduct", "col-1", "prod-1").Return(nil).Once()
	collections.On("AddProduct", "col-2", "prod-1").Return(nil).Once()

	err := service.CreateProduct(product, "kitchen", "gifts")
	assert.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	products.AssertExpectations(t)
	collections.AssertExpectations(t)
}

func TestCatalogService_CreateProductUnknownCollection(t *testing.T) {
	products := new(MockProductRepository)
	collections := new(MockCollectionRepository)
	service := services.NewCatalogService(products, collections)

	collections.On("GetBySlug", "missing").Return(nil, fmt.Errorf("collection with slug missing %w", repositories.ErrNotFound)).Once()

	err := service.CreateProduct(&models.Product{Name: "Mug"}, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "cannot place product in collection missing")
	products.AssertNotCalled(t, "Create", mock.Anything)
	collections.AssertExpectations(t)
}

func TestCatalogService_CollectionWithProducts(t *testing.T) {
	collections := new(MockCollectionRepository)
	service := services.NewCatalogService(new(MockProductRepository), collections)

	collections.On("GetBySlug", "summer").Return(&models.Collection{ID: "col-1", Name: "Summer", Slug: "summer"}, nil).Once()
	collections.On("Products", "col-1").Return([]models.Product{{ID: "p1"}, {ID: "p2"}}, nil).Once()

	view, err := service.CollectionWithProducts("summer")
	assert.NoError(t, err)
	assert.Equal(t, "Summer", view.Name)
	assert.Len(t, view.Products, 2)
	collections.AssertExpectations(t)
}

func TestCatalogService_CreateCollectionAndDeleteProduct(t *testing.T) {
	products := new(MockProductRepository)
	collections := new(MockCollectionRepository)
	service := services.NewCatalogService(products, collections)

	collection := &models.Collection{Name: "Summer", Slug: "summer"}
	collections.On("Create", collection).Return(nil).Once()
	assert.NoError(t, service.CreateCollection(collection))

	products.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct("1"))

	products.On("Delete", "99").Return(fmt.Errorf("product with ID 99 %w for deletion", repositories.ErrNotFound)).Once()
	err := service.DeleteProduct("99")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for deletion")

	products.AssertExpectations(t)
	collections.AssertExpectations(t)
}
