// internal/storage/storage.go

// Package storage is the data-access layer: typed CRUD per entity with a
// Postgres implementation and an in-memory one with the same semantics.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/spicepop/storefront/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Storage is implemented by PostgresStorage and MemStorage.
//
// Update methods merge the non-nil fields of the request over the existing
// row. Delete methods report whether a row was removed.
type Storage interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	CountUsers(ctx context.Context) (int64, error)

	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uint, patch *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) (bool, error)

	GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uint, patch *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) (bool, error)

	GetOrders(ctx context.Context, page Page) ([]models.Order, int64, error)
	GetOrderByID(ctx context.Context, id uint) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	// SetOrderPaymentReference records an issued payment reference on a
	// pending order. Orders that are missing or no longer pending give ErrNotFound.
	SetOrderPaymentReference(ctx context.Context, id uint, reference string) (*models.Order, error)
	UpdateOrderPayment(ctx context.Context, id uint, reference string) (*models.Order, error)

	GetSettings(ctx context.Context) ([]models.Setting, error)
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error)

	GetBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error)
	GetBlogPostByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, post *models.BlogPost) error
	UpdateBlogPost(ctx context.Context, id uint, patch *models.UpdateBlogPostRequest) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id uint) (bool, error)

	Ping(ctx context.Context) error
}

// Page limits a list query. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

func applyCategoryPatch(c *models.Category, p *models.UpdateCategoryRequest) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.ImageURL != nil {
		c.ImageURL = p.ImageURL
	}
}

func applyProductPatch(pr *models.Product, p *models.UpdateProductRequest) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Slug != nil {
		pr.Slug = *p.Slug
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	if p.Stock != nil {
		pr.Stock = *p.Stock
	}
	if p.ImageURL != nil {
		pr.ImageURL = p.ImageURL
	}
	if p.CategoryID != nil {
		pr.CategoryID = p.CategoryID
	}
	if p.IsFeatured != nil {
		pr.IsFeatured = *p.IsFeatured
	}
}

func applyBlogPostPatch(b *models.BlogPost, p *models.UpdateBlogPostRequest) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Slug != nil {
		b.Slug = *p.Slug
	}
	if p.Excerpt != nil {
		b.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.ImageURL != nil {
		b.ImageURL = p.ImageURL
	}
	if p.CategoryID != nil {
		b.CategoryID = p.CategoryID
	}
	if p.Published != nil {
		b.Published = *p.Published
	}
}
