// internal/storage/memory.go
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/spicepop/storefront/internal/models"
)

// MemStorage keeps everything in process memory. It enforces the same unique
// keys as the database schema and is used by tests and the offline dev mode.
type MemStorage struct {
	mu sync.RWMutex

	nextID map[string]uint

	users      map[uint]models.User
	categories map[uint]models.Category
	products   map[uint]models.Product
	orders     map[uint]models.Order
	settings   map[string]models.Setting
	posts      map[uint]models.BlogPost

	now func() time.Time
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		nextID:     make(map[string]uint),
		users:      make(map[uint]models.User),
		categories: make(map[uint]models.Category),
		products:   make(map[uint]models.Product),
		orders:     make(map[uint]models.Order),
		settings:   make(map[string]models.Setting),
		posts:      make(map[uint]models.BlogPost),
		now:        time.Now,
	}
}

func (m *MemStorage) id(table string) uint {
	m.nextID[table]++
	return m.nextID[table]
}

func (m *MemStorage) stamp(base *models.BaseModel, table string) {
	now := m.now()
	if base.ID == 0 {
		base.ID = m.id(table)
	}
	base.CreatedAt = now
	base.UpdatedAt = now
}

func (m *MemStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Users

func (m *MemStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *MemStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errors.Wrap(ErrDuplicate, "create user")
		}
	}
	m.stamp(&user.BaseModel, "users")
	m.users[user.ID] = *user
	return nil
}

func (m *MemStorage) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// Categories

func (m *MemStorage) GetCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (m *MemStorage) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

func (m *MemStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.categories {
		if c.Slug == slug {
			category := c
			return &category, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStorage) categorySlugTaken(slug string, except uint) bool {
	for id, c := range m.categories {
		if id != except && c.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MemStorage) CreateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.categorySlugTaken(category.Slug, 0) {
		return errors.Wrap(ErrDuplicate, "create category")
	}
	m.stamp(&category.BaseModel, "categories")
	m.categories[category.ID] = *category
	return nil
}

func (m *MemStorage) UpdateCategory(ctx context.Context, id uint, patch *models.UpdateCategoryRequest) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyCategoryPatch(&category, patch)
	if m.categorySlugTaken(category.Slug, id) {
		return nil, errors.Wrap(ErrDuplicate, "update category")
	}
	category.UpdatedAt = m.now()
	m.categories[id] = category
	return &category, nil
}

func (m *MemStorage) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for pid, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			m.products[pid] = p
		}
	}
	for bid, b := range m.posts {
		if b.CategoryID != nil && *b.CategoryID == id {
			b.CategoryID = nil
			m.posts[bid] = b
		}
	}

	if _, ok := m.categories[id]; !ok {
		return false, nil
	}
	delete(m.categories, id)
	return true, nil
}

// Products

func (m *MemStorage) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *MemStorage) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (m *MemStorage) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStorage) productSlugTaken(slug string, except uint) bool {
	for id, p := range m.products {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MemStorage) CreateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.productSlugTaken(product.Slug, 0) {
		return errors.Wrap(ErrDuplicate, "create product")
	}
	m.stamp(&product.BaseModel, "products")
	m.products[product.ID] = *product
	return nil
}

func (m *MemStorage) UpdateProduct(ctx context.Context, id uint, patch *models.UpdateProductRequest) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyProductPatch(&product, patch)
	if m.productSlugTaken(product.Slug, id) {
		return nil, errors.Wrap(ErrDuplicate, "update product")
	}
	product.UpdatedAt = m.now()
	m.products[id] = product
	return &product, nil
}

func (m *MemStorage) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return false, nil
	}
	delete(m.products, id)
	return true, nil
}

// Orders

func (m *MemStorage) GetOrders(ctx context.Context, page Page) ([]models.Order, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	total := int64(len(orders))
	if page.Limit > 0 {
		start := page.Offset
		if start > len(orders) {
			start = len(orders)
		}
		end := start + page.Limit
		if end > len(orders) {
			end = len(orders)
		}
		orders = orders[start:end]
	}
	return orders, total, nil
}

func (m *MemStorage) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (m *MemStorage) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodWhatsApp
	}
	m.stamp(&order.BaseModel, "orders")
	m.orders[order.ID] = *order
	return nil
}

func (m *MemStorage) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = m.now()
	m.orders[id] = order
	return &order, nil
}

func (m *MemStorage) SetOrderPaymentReference(ctx context.Context, id uint, reference string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok || order.Status != models.OrderStatusPending {
		return nil, ErrNotFound
	}
	order.PaymentReference = &reference
	order.UpdatedAt = m.now()
	m.orders[id] = order
	return &order, nil
}

func (m *MemStorage) UpdateOrderPayment(ctx context.Context, id uint, reference string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order.Status = models.OrderStatusPaid
	order.PaymentMethod = models.PaymentMethodCard
	order.PaymentReference = &reference
	order.UpdatedAt = m.now()
	m.orders[id] = order
	return &order, nil
}

// Settings

func (m *MemStorage) GetSettings(ctx context.Context) ([]models.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings := make([]models.Setting, 0, len(m.settings))
	for _, s := range m.settings {
		settings = append(settings, s)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (m *MemStorage) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	setting, ok := m.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &setting, nil
}

func (m *MemStorage) UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	setting, ok := m.settings[key]
	if !ok {
		setting = models.Setting{Key: key}
		m.stamp(&setting.BaseModel, "settings")
	}
	setting.Value = value
	setting.UpdatedAt = m.now()
	m.settings[key] = setting
	return &setting, nil
}

// Blog posts

func (m *MemStorage) GetBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]models.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		if publishedOnly && !p.Published {
			continue
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (m *MemStorage) GetBlogPostByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &post, nil
}

func (m *MemStorage) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			post := p
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStorage) postSlugTaken(slug string, except uint) bool {
	for id, p := range m.posts {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MemStorage) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postSlugTaken(post.Slug, 0) {
		return errors.Wrap(ErrDuplicate, "create blog post")
	}
	m.stamp(&post.BaseModel, "blog_posts")
	m.posts[post.ID] = *post
	return nil
}

func (m *MemStorage) UpdateBlogPost(ctx context.Context, id uint, patch *models.UpdateBlogPostRequest) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyBlogPostPatch(&post, patch)
	if m.postSlugTaken(post.Slug, id) {
		return nil, errors.Wrap(ErrDuplicate, "update blog post")
	}
	post.UpdatedAt = m.now()
	m.posts[id] = post
	return &post, nil
}

func (m *MemStorage) DeleteBlogPost(ctx context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

var (
	_ Storage = (*MemStorage)(nil)
	_ Storage = (*PostgresStorage)(nil)
)
