// internal/storage/memory_test.go
package storage

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spicepop/storefront/internal/models"
)

type MemStorageTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *MemStorage
}

func (s *MemStorageTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemStorage()
}

func (s *MemStorageTestSuite) createCategory(name, slug string) *models.Category {
	c := &models.Category{Name: name, Slug: slug}
	require.NoError(s.T(), s.store.CreateCategory(s.ctx, c))
	return c
}

func (s *MemStorageTestSuite) createProduct(slug string, categoryID *uint, featured bool) *models.Product {
	p := &models.Product{
		Name:        slug,
		Slug:        slug,
		Description: "desc",
		Price:       models.MustMoney("9.99"),
		Stock:       5,
		CategoryID:  categoryID,
		IsFeatured:  featured,
	}
	require.NoError(s.T(), s.store.CreateProduct(s.ctx, p))
	return p
}

func (s *MemStorageTestSuite) TestCreateAssignsIDs() {
	a := s.createCategory("Spices", "spices")
	b := s.createCategory("Blends", "blends")

	assert.Equal(s.T(), uint(1), a.ID)
	assert.Equal(s.T(), uint(2), b.ID)
	assert.False(s.T(), a.CreatedAt.IsZero())
}

func (s *MemStorageTestSuite) TestDuplicateSlugRejected() {
	s.createCategory("Spices", "spices")

	err := s.store.CreateCategory(s.ctx, &models.Category{Name: "Other", Slug: "spices"})
	assert.True(s.T(), errors.Is(err, ErrDuplicate))

	s.createProduct("turmeric", nil, false)
	err = s.store.CreateProduct(s.ctx, &models.Product{Name: "x", Slug: "turmeric"})
	assert.True(s.T(), errors.Is(err, ErrDuplicate))
}

func (s *MemStorageTestSuite) TestUpdateSlugCollision() {
	s.createProduct("turmeric", nil, false)
	cumin := s.createProduct("cumin", nil, false)

	taken := "turmeric"
	_, err := s.store.UpdateProduct(s.ctx, cumin.ID, &models.UpdateProductRequest{Slug: &taken})
	assert.True(s.T(), errors.Is(err, ErrDuplicate))

	// Keeping its own slug is not a collision.
	own := "cumin"
	_, err = s.store.UpdateProduct(s.ctx, cumin.ID, &models.UpdateProductRequest{Slug: &own})
	assert.NoError(s.T(), err)
}

func (s *MemStorageTestSuite) TestUpdateProductMergesPatch() {
	p := s.createProduct("cardamom", nil, false)

	price := models.MustMoney("12.5")
	featured := true
	updated, err := s.store.UpdateProduct(s.ctx, p.ID, &models.UpdateProductRequest{
		Price:      &price,
		IsFeatured: &featured,
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "12.50", updated.Price.String())
	assert.True(s.T(), updated.IsFeatured)
	assert.Equal(s.T(), "cardamom", updated.Name)
	assert.Equal(s.T(), 5, updated.Stock)
}

func (s *MemStorageTestSuite) TestUpdateMissingReturnsNotFound() {
	name := "x"
	_, err := s.store.UpdateCategory(s.ctx, 99, &models.UpdateCategoryRequest{Name: &name})
	assert.Equal(s.T(), ErrNotFound, err)

	_, err = s.store.UpdateOrderStatus(s.ctx, 99, models.OrderStatusShipped)
	assert.Equal(s.T(), ErrNotFound, err)
}

func (s *MemStorageTestSuite) TestProductFilters() {
	spices := s.createCategory("Spices", "spices")
	blends := s.createCategory("Blends", "blends")

	s.createProduct("turmeric", &spices.ID, true)
	s.createProduct("cumin", &spices.ID, false)
	s.createProduct("garam-masala", &blends.ID, true)
	s.createProduct("loose", nil, false)

	all, err := s.store.GetProducts(s.ctx, models.ProductFilter{})
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 4)

	featured, err := s.store.GetProducts(s.ctx, models.ProductFilter{FeaturedOnly: true})
	require.NoError(s.T(), err)
	assert.Len(s.T(), featured, 2)

	bySpices, err := s.store.GetProducts(s.ctx, models.ProductFilter{CategoryID: &spices.ID})
	require.NoError(s.T(), err)
	require.Len(s.T(), bySpices, 2)
	assert.Equal(s.T(), "turmeric", bySpices[0].Slug)
	assert.Equal(s.T(), "cumin", bySpices[1].Slug)
}

func (s *MemStorageTestSuite) TestDeleteCategoryDetachesReferences() {
	spices := s.createCategory("Spices", "spices")
	p := s.createProduct("turmeric", &spices.ID, false)

	post := &models.BlogPost{Slug: "golden-milk", Title: "Golden milk", Excerpt: "e", Content: "c", CategoryID: &spices.ID}
	require.NoError(s.T(), s.store.CreateBlogPost(s.ctx, post))

	deleted, err := s.store.DeleteCategory(s.ctx, spices.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), deleted)

	got, err := s.store.GetProductByID(s.ctx, p.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.CategoryID)

	gotPost, err := s.store.GetBlogPostByID(s.ctx, post.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), gotPost.CategoryID)

	deleted, err = s.store.DeleteCategory(s.ctx, spices.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), deleted)
}

func (s *MemStorageTestSuite) TestOrdersNewestFirstWithPaging() {
	for i := 0; i < 3; i++ {
		order := &models.Order{
			CustomerName: "Asha",
			Items:        models.OrderItems{{ProductID: 1, Name: "Turmeric", Price: models.MustMoney("5"), Quantity: 1}},
			TotalAmount:  models.MustMoney("5"),
		}
		require.NoError(s.T(), s.store.CreateOrder(s.ctx, order))
		assert.Equal(s.T(), models.OrderStatusPending, order.Status)
	}

	orders, total, err := s.store.GetOrders(s.ctx, Page{Offset: 0, Limit: 2})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), total)
	require.Len(s.T(), orders, 2)
	assert.Equal(s.T(), uint(3), orders[0].ID)

	rest, _, err := s.store.GetOrders(s.ctx, Page{Offset: 2, Limit: 2})
	require.NoError(s.T(), err)
	require.Len(s.T(), rest, 1)
	assert.Equal(s.T(), uint(1), rest[0].ID)
}

func (s *MemStorageTestSuite) TestOrderPayment() {
	order := &models.Order{CustomerName: "Ravi", TotalAmount: models.MustMoney("10")}
	require.NoError(s.T(), s.store.CreateOrder(s.ctx, order))

	issued, err := s.store.SetOrderPaymentReference(s.ctx, order.ID, "pi_123")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusPending, issued.Status)
	require.NotNil(s.T(), issued.PaymentReference)
	assert.Equal(s.T(), "pi_123", *issued.PaymentReference)

	paid, err := s.store.UpdateOrderPayment(s.ctx, order.ID, "pi_123")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusPaid, paid.Status)
	assert.Equal(s.T(), models.PaymentMethodCard, paid.PaymentMethod)
	require.NotNil(s.T(), paid.PaymentReference)
	assert.Equal(s.T(), "pi_123", *paid.PaymentReference)

	_, err = s.store.SetOrderPaymentReference(s.ctx, order.ID, "pi_456")
	assert.ErrorIs(s.T(), err, ErrNotFound)
	_, err = s.store.SetOrderPaymentReference(s.ctx, 999, "pi_456")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *MemStorageTestSuite) TestUpsertSetting() {
	created, err := s.store.UpsertSetting(s.ctx, "contact_phone", "+91 98765 43210")
	require.NoError(s.T(), err)

	updated, err := s.store.UpsertSetting(s.ctx, "contact_phone", "+91 11111 22222")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, updated.ID)

	settings, err := s.store.GetSettings(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), settings, 1)
	assert.Equal(s.T(), "+91 11111 22222", settings[0].Value)
}

func (s *MemStorageTestSuite) TestBlogPostsPublishedOnly() {
	require.NoError(s.T(), s.store.CreateBlogPost(s.ctx, &models.BlogPost{Slug: "a", Title: "A", Published: true}))
	require.NoError(s.T(), s.store.CreateBlogPost(s.ctx, &models.BlogPost{Slug: "b", Title: "B"}))

	published, err := s.store.GetBlogPosts(s.ctx, true)
	require.NoError(s.T(), err)
	require.Len(s.T(), published, 1)
	assert.Equal(s.T(), "a", published[0].Slug)

	all, err := s.store.GetBlogPosts(s.ctx, false)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)
}

func (s *MemStorageTestSuite) TestUsersUnique() {
	u := &models.User{Username: "admin", Email: "admin@spicepop.in", IsAdmin: true}
	require.NoError(s.T(), u.SetPassword("secret"))
	require.NoError(s.T(), s.store.CreateUser(s.ctx, u))

	err := s.store.CreateUser(s.ctx, &models.User{Username: "admin", Email: "other@spicepop.in"})
	assert.True(s.T(), errors.Is(err, ErrDuplicate))

	got, err := s.store.GetUserByUsername(s.ctx, "admin")
	require.NoError(s.T(), err)
	assert.NoError(s.T(), got.CheckPassword("secret"))

	count, err := s.store.CountUsers(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), count)
}

func TestMemStorageSuite(t *testing.T) {
	suite.Run(t, new(MemStorageTestSuite))
}
