// internal/services/product_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/cache"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

type ProductService struct {
	store storage.Storage
	cache *cache.TTLCache
	log   logrus.FieldLogger
}

func NewProductService(store storage.Storage, listCache *cache.TTLCache, log logrus.FieldLogger) *ProductService {
	return &ProductService{
		store: store,
		cache: listCache,
		log:   log,
	}
}

// ListProductsJSON returns the encoded product list for filter, served from
// the list cache.
func (s *ProductService) ListProductsJSON(ctx context.Context, filter models.ProductFilter) ([]byte, error) {
	return s.cache.Fetch(ctx, productListKey(filter), func(ctx context.Context) ([]byte, error) {
		products, err := s.store.GetProducts(ctx, filter)
		if err != nil {
			return nil, err
		}
		return json.Marshal(products)
	})
}

func productListKey(filter models.ProductFilter) string {
	switch {
	case filter.CategoryID != nil && filter.FeaturedOnly:
		return cache.KeyProductsByCategory(*filter.CategoryID) + ":featured"
	case filter.CategoryID != nil:
		return cache.KeyProductsByCategory(*filter.CategoryID)
	case filter.FeaturedOnly:
		return cache.KeyProductsFeatured
	default:
		return cache.KeyProductsAll
	}
}

// GetProduct looks a product up by numeric id, falling back to the slug.
func (s *ProductService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil && id > 0 {
		product, err := s.store.GetProductByID(ctx, uint(id))
		if err == nil || !errors.Is(err, storage.ErrNotFound) {
			return product, err
		}
	}
	return s.store.GetProductBySlug(ctx, idOrSlug)
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	productSlug, err := resolveSlug(req.Slug, req.Name, 255)
	if err != nil {
		return nil, err
	}
	if err := ensureCategory(ctx, s.store, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Slug:        productSlug,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		IsFeatured:  req.IsFeatured,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.cache.Purge(ctx)

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "slug": product.Slug}).Info("Product created")
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *models.UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := ensureCategory(ctx, s.store, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := s.store.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.cache.Purge(ctx)

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return storage.ErrNotFound
	}
	s.cache.Purge(ctx)

	s.log.WithField("product_id", id).Info("Product deleted")
	return nil
}
