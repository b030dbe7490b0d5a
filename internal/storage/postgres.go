// internal/storage/postgres.go
package storage

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/spicepop/storefront/internal/models"
)

type PostgresStorage struct {
	db *gorm.DB
}

func NewPostgresStorage(db *gorm.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// translate maps driver errors onto the package sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueConstraintViolation(err) {
		return errors.Wrap(ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 23505 is unique_violation; seen when TranslateError is off.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlstate 23505") || strings.Contains(msg, "duplicate key value")
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Users

func (s *PostgresStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "get user by username")
	}
	return &user, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error, "create user")
}

func (s *PostgresStorage) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, translate(err, "count users")
}

// Categories

func (s *PostgresStorage) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, translate(err, "list categories")
	}
	return categories, nil
}

func (s *PostgresStorage) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err, "get category")
	}
	return &category, nil
}

func (s *PostgresStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate(err, "get category by slug")
	}
	return &category, nil
}

func (s *PostgresStorage) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(category).Error, "create category")
}

func (s *PostgresStorage) UpdateCategory(ctx context.Context, id uint, patch *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCategoryPatch(category, patch)
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, translate(err, "update category")
	}
	return category, nil
}

// DeleteCategory detaches products and blog posts before deleting the row.
// The steps are sequential statements, not a transaction.
func (s *PostgresStorage) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return false, translate(err, "detach products from category")
	}

	if err := db.Model(&models.BlogPost{}).Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return false, translate(err, "detach blog posts from category")
	}

	result := db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return false, translate(result.Error, "delete category")
	}
	return result.RowsAffected > 0, nil
}

// Products

func (s *PostgresStorage) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	products := []models.Product{}
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return products, nil
}

func (s *PostgresStorage) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &product, nil
}

func (s *PostgresStorage) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, translate(err, "get product by slug")
	}
	return &product, nil
}

func (s *PostgresStorage) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(product).Error, "create product")
}

func (s *PostgresStorage) UpdateProduct(ctx context.Context, id uint, patch *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductPatch(product, patch)
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, translate(err, "update product")
	}
	return product, nil
}

func (s *PostgresStorage) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return false, translate(result.Error, "delete product")
	}
	return result.RowsAffected > 0, nil
}

// Orders

func (s *PostgresStorage) GetOrders(ctx context.Context, page Page) ([]models.Order, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count orders")
	}

	query := db.Order("created_at DESC").Order("id DESC")
	if page.Limit > 0 {
		query = query.Offset(page.Offset).Limit(page.Limit)
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, translate(err, "list orders")
	}
	return orders, total, nil
}

func (s *PostgresStorage) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err, "get order")
	}
	return &order, nil
}

func (s *PostgresStorage) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(order).Error, "create order")
}

func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, translate(result.Error, "update order status")
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrderByID(ctx, id)
}

func (s *PostgresStorage) SetOrderPaymentReference(ctx context.Context, id uint, reference string) (*models.Order, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Update("payment_reference", reference)
	if result.Error != nil {
		return nil, translate(result.Error, "set order payment reference")
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrderByID(ctx, id)
}

func (s *PostgresStorage) UpdateOrderPayment(ctx context.Context, id uint, reference string) (*models.Order, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":            models.OrderStatusPaid,
		"payment_method":    models.PaymentMethodCard,
		"payment_reference": reference,
	})
	if result.Error != nil {
		return nil, translate(result.Error, "update order payment")
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrderByID(ctx, id)
}

// Settings

func (s *PostgresStorage) GetSettings(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}
	if err := s.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, translate(err, "list settings")
	}
	return settings, nil
}

func (s *PostgresStorage) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, translate(err, "get setting")
	}
	return &setting, nil
}

func (s *PostgresStorage) UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	setting, err := s.GetSetting(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		setting = &models.Setting{Key: key, Value: value}
		if err := s.db.WithContext(ctx).Create(setting).Error; err != nil {
			return nil, translate(err, "create setting")
		}
		return setting, nil
	case err != nil:
		return nil, err
	}

	setting.Value = value
	if err := s.db.WithContext(ctx).Save(setting).Error; err != nil {
		return nil, translate(err, "update setting")
	}
	return setting, nil
}

// Blog posts

func (s *PostgresStorage) GetBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	query := s.db.WithContext(ctx).Model(&models.BlogPost{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	posts := []models.BlogPost{}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, translate(err, "list blog posts")
	}
	return posts, nil
}

func (s *PostgresStorage) GetBlogPostByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "get blog post")
	}
	return &post, nil
}

func (s *PostgresStorage) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translate(err, "get blog post by slug")
	}
	return &post, nil
}

func (s *PostgresStorage) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	return translate(s.db.WithContext(ctx).Create(post).Error, "create blog post")
}

func (s *PostgresStorage) UpdateBlogPost(ctx context.Context, id uint, patch *models.UpdateBlogPostRequest) (*models.BlogPost, error) {
	post, err := s.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyBlogPostPatch(post, patch)
	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, translate(err, "update blog post")
	}
	return post, nil
}

func (s *PostgresStorage) DeleteBlogPost(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if result.Error != nil {
		return false, translate(result.Error, "delete blog post")
	}
	return result.RowsAffected > 0, nil
}
