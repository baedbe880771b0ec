package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
	"bakery_backend/internal/services"
)

type fakeCategoryRepo struct {
	categories  map[int64]*models.Category
	softDeleted []int64
	createErr   error
	updateErr   error
}

func (f *fakeCategoryRepo) GetByID(id int64) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok || !c.IsActive {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) GetByIDAdmin(id int64) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) GetAll() ([]models.Category, error) { return nil, nil }

func (f *fakeCategoryRepo) GetAllWithProductCount() ([]models.Category, error) { return nil, nil }

func (f *fakeCategoryRepo) Create(_ repositories.SQLExecutor, c *models.Category) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	c.ID = int64(len(f.categories) + 1)
	f.categories[c.ID] = c
	return c.ID, nil
}

func (f *fakeCategoryRepo) Update(_ repositories.SQLExecutor, id int64, upd models.CategoryUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	c, ok := f.categories[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	return nil
}

func (f *fakeCategoryRepo) SoftDelete(_ repositories.SQLExecutor, id int64) error {
	c, ok := f.categories[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.IsActive = false
	f.softDeleted = append(f.softDeleted, id)
	return nil
}

func (f *fakeCategoryRepo) CountActive() (int, error) { return len(f.categories), nil }

type catalogFixture struct {
	svc        services.CatalogService
	products   *fakeProductRepo
	categories *fakeCategoryRepo
}

func newCatalogFixture() *catalogFixture {
	products := &fakeProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Bánh mì thịt", Price: 20000, CategoryID: 5, IsAvailable: true},
		},
		categoryCounts: map[int64]int{},
	}
	categories := &fakeCategoryRepo{categories: map[int64]*models.Category{
		5: {ID: 5, Name: "Bánh mì", IsActive: true},
	}}
	return &catalogFixture{
		svc:        services.NewCatalogService(products, categories, nil),
		products:   products,
		categories: categories,
	}
}

func TestDeleteCategory_BlockedByAvailableProducts(t *testing.T) {
	fx := newCatalogFixture()
	fx.products.categoryCounts[5] = 3

	err := fx.svc.DeleteCategory(5)
	require.ErrorIs(t, err, services.ErrCategoryHasProducts)
	assert.Empty(t, fx.categories.softDeleted)
}

func TestDeleteCategory_Succeeds(t *testing.T) {
	fx := newCatalogFixture()

	err := fx.svc.DeleteCategory(5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, fx.categories.softDeleted)

	// Soft-deleted: gone from the storefront, still visible to admins.
	_, err = fx.svc.GetCategoryByID(5)
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	fx := newCatalogFixture()

	_, err := fx.svc.CreateProduct(services.CreateProductRequest{
		Name:       "Bánh mì chảo",
		Price:      45000,
		CategoryID: 99,
	})
	require.ErrorIs(t, err, services.ErrInvalidCategoryRef)
}

func TestUpdateProduct_EmptyUpdateRejected(t *testing.T) {
	fx := newCatalogFixture()

	_, err := fx.svc.UpdateProduct(1, models.ProductUpdate{})
	require.ErrorIs(t, err, services.ErrValidation)
}

func TestDeleteProduct_SoftDeleteHidesFromStorefront(t *testing.T) {
	fx := newCatalogFixture()

	require.NoError(t, fx.svc.DeleteProduct(1))
	assert.Equal(t, []int64{1}, fx.products.softDeleted)

	_, err := fx.svc.GetProductByID(1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestUpdateCategory_DuplicateName(t *testing.T) {
	fx := newCatalogFixture()
	fx.categories.updateErr = repositories.ErrDuplicateKey

	name := "Bánh ngọt"
	_, err := fx.svc.UpdateCategory(5, models.CategoryUpdate{Name: &name})
	require.ErrorIs(t, err, services.ErrCategoryNameExists)
}
