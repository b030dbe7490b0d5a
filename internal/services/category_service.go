// internal/services/category_service.go
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

type CategoryService struct {
	store storage.Storage
	cache *cache.TTLCache
	log   logrus.FieldLogger
}

func NewCategoryService(store storage.Storage, listCache *cache.TTLCache, log logrus.FieldLogger) *CategoryService {
	return &CategoryService{
		store: store,
		cache: listCache,
		log:   log,
	}
}

func (s *CategoryService) ListCategoriesJSON(ctx context.Context) ([]byte, error) {
	return s.cache.Fetch(ctx, cache.KeyCategoriesAll, func(ctx context.Context) ([]byte, error) {
		categories, err := s.store.GetCategories(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(categories)
	})
}

// GetCategory looks a category up by numeric id, falling back to the slug.
func (s *CategoryService) GetCategory(ctx context.Context, idOrSlug string) (*models.Category, error) {
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil && id > 0 {
		category, err := s.store.GetCategoryByID(ctx, uint(id))
		if err == nil || !errors.Is(err, storage.ErrNotFound) {
			return category, err
		}
	}
	return s.store.GetCategoryBySlug(ctx, idOrSlug)
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	categorySlug, err := resolveSlug(req.Slug, req.Name, 100)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:     req.Name,
		Slug:     categorySlug,
		ImageURL: req.ImageURL,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.cache.Purge(ctx)

	s.log.WithFields(logrus.Fields{"category_id": category.ID, "slug": category.Slug}).Info("Category created")
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category, err := s.store.UpdateCategory(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	s.cache.Purge(ctx)

	return category, nil
}

// DeleteCategory detaches referencing products and blog posts, then removes
// the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	deleted, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !deleted {
		return storage.ErrNotFound
	}
	s.cache.Purge(ctx)

	s.log.WithField("category_id", id).Info("Category deleted")
	return nil
}

// ensureCategory checks that a referenced category exists.
func ensureCategory(ctx context.Context, store storage.Storage, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	if _, err := store.GetCategoryByID(ctx, *categoryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUnknownCategory
		}
		return err
	}
	return nil
}
