package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spicepop/storefront/internal/cache"
	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

// spyStore counts product list reads on the way to the wrapped storage.
type spyStore struct {
	storage.Storage
	mu           sync.Mutex
	productLists int
}

func (s *spyStore) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	s.productLists++
	s.mu.Unlock()
	return s.Storage.GetProducts(ctx, filter)
}

func (s *spyStore) ProductListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productLists
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type RouterTestSuite struct {
	suite.Suite
	ctx    context.Context
	mem    *storage.MemStorage
	spy    *spyStore
	clock  *clock
	cfg    *config.Config
	engine *gin.Engine
	stop   func()
	admin  string
}

func (s *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	require.NoError(s.T(), i18n.Initialize())
}

func (s *RouterTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mem = storage.NewMemStorage()
	s.spy = &spyStore{Storage: s.mem}
	s.clock = &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	staticDir := s.T().TempDir()
	require.NoError(s.T(), os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<!doctype html><div id=root></div>"), 0o644))
	require.NoError(s.T(), os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('spicepop')"), 0o644))

	s.cfg = &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second},
		JWT:         config.JWTConfig{TokenTTL: time.Hour},
		RateLimit:   config.RateLimitConfig{Window: time.Minute, ReadMax: 10000, WriteMax: 10000, AuthMax: 100},
		AWS:         config.AWSConfig{UploadsDir: s.T().TempDir()},
		Payment:     config.PaymentConfig{Currency: "inr"},
		Checkout:    config.CheckoutConfig{CurrencySymbol: "₹", WhatsAppNumber: "919876543210"},
		Frontend:    config.FrontendConfig{BaseURL: "https://spicepop.example", StaticDir: staticDir},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	listCache := cache.New(cache.NewMemoryStore(), 5*time.Minute, cache.WithClock(s.clock.Now), cache.WithLogger(log))

	engine, stop, err := Initialize(s.spy, listCache, s.cfg, log)
	require.NoError(s.T(), err)
	s.engine, s.stop = engine, stop

	admin := &models.User{Username: "admin", Email: "admin@spicepop.example", IsAdmin: true}
	require.NoError(s.T(), admin.SetPassword("secret-pass"))
	require.NoError(s.T(), s.mem.CreateUser(s.ctx, admin))
	s.admin = utils.BasicAuthHeader("admin", "secret-pass")
}

func (s *RouterTestSuite) TearDownTest() {
	s.stop()
}

func (s *RouterTestSuite) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) asAdmin(method, path string, body interface{}) *httptest.ResponseRecorder {
	return s.do(method, path, body, "Authorization", s.admin)
}

func (s *RouterTestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *RouterTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp utils.APIResponse
	s.decode(w, &resp)
	require.NotNil(s.T(), resp.Error)
	assert.False(s.T(), resp.Success)
	return resp.Error.Code
}

func (s *RouterTestSuite) createCategory(name, slug string) models.Category {
	w := s.asAdmin(http.MethodPost, "/api/categories", gin.H{"name": name, "slug": slug})
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var c models.Category
	s.decode(w, &c)
	return c
}

func (s *RouterTestSuite) createProduct(body gin.H) models.Product {
	w := s.asAdmin(http.MethodPost, "/api/products", body)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var p models.Product
	s.decode(w, &p)
	return p
}

func (s *RouterTestSuite) createOrder() models.Order {
	w := s.do(http.MethodPost, "/api/orders", gin.H{
		"customerName":    "Asha Rao",
		"customerEmail":   "asha@example.com",
		"customerPhone":   "+91 90000 00000",
		"shippingAddress": "12 Spice Lane, Kochi",
		"items": []gin.H{
			{"productId": 1, "name": "Saffron", "price": "499.50", "quantity": 2},
		},
	})
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var o models.Order
	s.decode(w, &o)
	return o
}

// Colliding slugs are rejected with 409 for every slugged entity.
func (s *RouterTestSuite) TestDuplicateSlugConflicts() {
	s.createCategory("Whole Spices", "whole-spices")
	w := s.asAdmin(http.MethodPost, "/api/categories", gin.H{"name": "Other", "slug": "whole-spices"})
	assert.Equal(s.T(), http.StatusConflict, w.Code)
	assert.Equal(s.T(), "CONFLICT", s.errorCode(w))

	s.createProduct(gin.H{"name": "Saffron", "slug": "saffron", "description": "Threads.", "price": "499.00"})
	w = s.asAdmin(http.MethodPost, "/api/products", gin.H{"name": "Saffron 2", "slug": "saffron", "description": "Again.", "price": "1"})
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	post := gin.H{"title": "Tempering", "slug": "tempering", "excerpt": "x", "content": "y", "published": true}
	require.Equal(s.T(), http.StatusCreated, s.asAdmin(http.MethodPost, "/api/blog", post).Code)
	assert.Equal(s.T(), http.StatusConflict, s.asAdmin(http.MethodPost, "/api/blog", post).Code)
}

// Deleting a category keeps its products with categoryId cleared.
func (s *RouterTestSuite) TestDeleteCategoryNullsProductReference() {
	category := s.createCategory("Blends", "blends")
	product := s.createProduct(gin.H{
		"name": "Garam Masala", "description": "House blend.", "price": "120", "categoryId": category.ID,
	})
	require.NotNil(s.T(), product.CategoryID)

	w := s.asAdmin(http.MethodDelete, "/api/categories/"+itoa(category.ID), nil)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/products/"+itoa(product.ID), nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	var reloaded models.Product
	s.decode(w, &reloaded)
	assert.Nil(s.T(), reloaded.CategoryID)
	assert.Contains(s.T(), w.Body.String(), `"categoryId":null`)

	assert.Equal(s.T(), http.StatusNotFound, s.asAdmin(http.MethodDelete, "/api/categories/"+itoa(category.ID), nil).Code)
}

// Status patches outside the enum are rejected with 400.
func (s *RouterTestSuite) TestOrderStatusEnumValidated() {
	order := s.createOrder()
	path := "/api/orders/" + itoa(order.ID) + "/status"

	for _, status := range []string{"cancelled", "", "PAID", "refunded"} {
		w := s.asAdmin(http.MethodPatch, path, gin.H{"status": status})
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, status)
		assert.Equal(s.T(), "VALIDATION_ERROR", s.errorCode(w))
	}

	w := s.asAdmin(http.MethodPatch, path, gin.H{"status": "shipped"})
	require.Equal(s.T(), http.StatusOK, w.Code)
	var updated models.Order
	s.decode(w, &updated)
	assert.Equal(s.T(), models.OrderStatusShipped, updated.Status)

	assert.Equal(s.T(), http.StatusNotFound, s.asAdmin(http.MethodPatch, "/api/orders/999/status", gin.H{"status": "paid"}).Code)
}

// Unauthenticated writes get 401 and leave no row behind.
func (s *RouterTestSuite) TestUnauthenticatedProductCreateRejected() {
	body := gin.H{"name": "Clove", "description": "Whole.", "price": "90"}

	w := s.do(http.MethodPost, "/api/products", body)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "UNAUTHORIZED", s.errorCode(w))

	w = s.do(http.MethodPost, "/api/products", body, "Authorization", utils.BasicAuthHeader("admin", "wrong"))
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/products", body, "Authorization", "Bearer forged.token.value")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	products, err := s.mem.GetProducts(s.ctx, models.ProductFilter{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), products)
}

// The product list is served from cache within the TTL.
func (s *RouterTestSuite) TestProductListCachedWithinTTL() {
	s.createProduct(gin.H{"name": "Cumin", "description": "Seeds.", "price": "45.00"})
	base := s.spy.ProductListCalls()

	first := s.do(http.MethodGet, "/api/products", nil)
	require.Equal(s.T(), http.StatusOK, first.Code)
	second := s.do(http.MethodGet, "/api/products", nil)
	require.Equal(s.T(), http.StatusOK, second.Code)

	assert.Equal(s.T(), first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(s.T(), base+1, s.spy.ProductListCalls())

	s.clock.Advance(5*time.Minute + time.Second)

	third := s.do(http.MethodGet, "/api/products", nil)
	require.Equal(s.T(), http.StatusOK, third.Code)
	assert.Equal(s.T(), base+2, s.spy.ProductListCalls())
	assert.Equal(s.T(), first.Body.Bytes(), third.Body.Bytes())
}

func (s *RouterTestSuite) TestProductListETag() {
	s.createProduct(gin.H{"name": "Cumin", "description": "Seeds.", "price": "45.00"})

	first := s.do(http.MethodGet, "/api/products", nil)
	etag := first.Header().Get("ETag")
	require.NotEmpty(s.T(), etag)

	w := s.do(http.MethodGet, "/api/products", nil, "If-None-Match", etag)
	assert.Equal(s.T(), http.StatusNotModified, w.Code)
	assert.Empty(s.T(), w.Body.Bytes())
}

func (s *RouterTestSuite) TestProductFilters() {
	category := s.createCategory("Chillies", "chillies")
	s.createProduct(gin.H{"name": "Byadgi", "description": "Mild.", "price": "60", "categoryId": category.ID, "isFeatured": true})
	s.createProduct(gin.H{"name": "Guntur", "description": "Hot.", "price": "55", "categoryId": category.ID})
	s.createProduct(gin.H{"name": "Pepper", "description": "Black.", "price": "70", "isFeatured": true})

	var products []models.Product
	s.decode(s.do(http.MethodGet, "/api/products?category="+itoa(category.ID), nil), &products)
	assert.Len(s.T(), products, 2)

	s.decode(s.do(http.MethodGet, "/api/products?category=chillies", nil), &products)
	assert.Len(s.T(), products, 2)

	s.decode(s.do(http.MethodGet, "/api/products?featured=true", nil), &products)
	assert.Len(s.T(), products, 2)

	s.decode(s.do(http.MethodGet, "/api/products?featured=true&category=chillies", nil), &products)
	require.Len(s.T(), products, 1)
	assert.Equal(s.T(), "byadgi", products[0].Slug)

	assert.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/api/products?category=unknown", nil).Code)
}

func (s *RouterTestSuite) TestProductLookupBySlug() {
	created := s.createProduct(gin.H{"name": "Star Anise", "description": "Whole.", "price": "85"})
	assert.Equal(s.T(), "star-anise", created.Slug)

	var bySlug models.Product
	s.decode(s.do(http.MethodGet, "/api/products/star-anise", nil), &bySlug)
	assert.Equal(s.T(), created.ID, bySlug.ID)
	assert.Equal(s.T(), "85.00", bySlug.Price.String())

	assert.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/api/products/missing", nil).Code)
}

func (s *RouterTestSuite) TestProductUpdateAndDelete() {
	created := s.createProduct(gin.H{"name": "Mace", "description": "Blades.", "price": "300", "stock": 4})

	w := s.asAdmin(http.MethodPut, "/api/products/"+itoa(created.ID), gin.H{"price": "275.50", "stock": 9})
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var updated models.Product
	s.decode(w, &updated)
	assert.Equal(s.T(), "275.50", updated.Price.String())
	assert.Equal(s.T(), 9, updated.Stock)
	assert.Equal(s.T(), "Mace", updated.Name)

	w = s.asAdmin(http.MethodPut, "/api/products/"+itoa(created.ID), gin.H{"price": "-1"})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	assert.Equal(s.T(), http.StatusBadRequest, s.asAdmin(http.MethodDelete, "/api/products/abc", nil).Code)
	assert.Equal(s.T(), http.StatusOK, s.asAdmin(http.MethodDelete, "/api/products/"+itoa(created.ID), nil).Code)
	assert.Equal(s.T(), http.StatusNotFound, s.asAdmin(http.MethodDelete, "/api/products/"+itoa(created.ID), nil).Code)
}

func (s *RouterTestSuite) TestLoginIssuesUsableCredentials() {
	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "secret-pass"})
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var login struct {
		User       models.User `json:"user"`
		AuthHeader string      `json:"authHeader"`
		Token      string      `json:"token"`
		ExpiresIn  int         `json:"expiresIn"`
	}
	s.decode(w, &login)
	assert.Equal(s.T(), s.admin, login.AuthHeader)
	assert.Equal(s.T(), 3600, login.ExpiresIn)
	assert.NotContains(s.T(), w.Body.String(), "$2a$")

	w = s.do(http.MethodGet, "/api/auth/check", nil, "Authorization", "Bearer "+login.Token)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"authenticated":true`)

	w = s.do(http.MethodGet, "/api/auth/check", nil, "Authorization", login.AuthHeader)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	assert.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/check", nil).Code)

	w = s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/logout", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "message")
}

func (s *RouterTestSuite) TestLoginRejectsNonAdmin() {
	user := &models.User{Username: "shopper", Email: "shopper@example.com"}
	require.NoError(s.T(), user.SetPassword("secret-pass"))
	require.NoError(s.T(), s.mem.CreateUser(s.ctx, user))

	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "shopper", "password": "secret-pass"})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/orders", nil, "Authorization", utils.BasicAuthHeader("shopper", "secret-pass"))
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *RouterTestSuite) TestOrdersAdminOnlyWithPagination() {
	first := s.createOrder()
	assert.Equal(s.T(), "999.00", first.TotalAmount.String())
	assert.Equal(s.T(), models.OrderStatusPending, first.Status)
	s.createOrder()
	s.createOrder()

	assert.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/orders", nil).Code)
	assert.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/orders/"+itoa(first.ID), nil).Code)

	var orders []models.Order
	w := s.asAdmin(http.MethodGet, "/api/orders", nil)
	s.decode(w, &orders)
	assert.Len(s.T(), orders, 3)
	assert.Empty(s.T(), w.Header().Get("X-Total-Count"))

	w = s.asAdmin(http.MethodGet, "/api/orders?page=1&limit=2", nil)
	s.decode(w, &orders)
	assert.Len(s.T(), orders, 2)
	assert.Equal(s.T(), "3", w.Header().Get("X-Total-Count"))
	assert.Equal(s.T(), "2", w.Header().Get("X-Total-Pages"))

	var order models.Order
	s.decode(s.asAdmin(http.MethodGet, "/api/orders/"+itoa(first.ID), nil), &order)
	require.Len(s.T(), order.Items, 1)
	assert.Equal(s.T(), "Saffron", order.Items[0].Name)
}

func (s *RouterTestSuite) TestCreateOrderValidation() {
	w := s.do(http.MethodPost, "/api/orders", gin.H{"customerName": "x", "items": []gin.H{}})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "VALIDATION_ERROR", s.errorCode(w))

	w = s.do(http.MethodPost, "/api/orders", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

// Orders whose quantity or total cannot be stored are rejected up front.
func (s *RouterTestSuite) TestCreateOrderRejectsOversizedAmounts() {
	order := func(price string, quantity int) gin.H {
		return gin.H{
			"customerName":    "Asha Rao",
			"customerEmail":   "asha@example.com",
			"customerPhone":   "+91 90000 00000",
			"shippingAddress": "12 Spice Lane, Kochi",
			"items": []gin.H{
				{"productId": 1, "name": "Saffron", "price": price, "quantity": quantity},
			},
		}
	}

	w := s.do(http.MethodPost, "/api/orders", order("100", 1000000))
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "VALIDATION_ERROR", s.errorCode(w))

	w = s.do(http.MethodPost, "/api/orders", order("99999999.99", 2))
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "VALIDATION_ERROR", s.errorCode(w))
	assert.Contains(s.T(), w.Body.String(), `"field":"totalAmount"`)

	orders, total, err := s.mem.GetOrders(s.ctx, storage.Page{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), orders)
	assert.Zero(s.T(), total)

	w = s.do(http.MethodPost, "/api/orders", order("99999.99", 1000))
	assert.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
}

func (s *RouterTestSuite) TestBlogVisibility() {
	require.Equal(s.T(), http.StatusCreated, s.asAdmin(http.MethodPost, "/api/blog", gin.H{
		"title": "Tempering 101", "excerpt": "Tadka.", "content": "Heat **ghee**.", "published": true,
	}).Code)
	require.Equal(s.T(), http.StatusCreated, s.asAdmin(http.MethodPost, "/api/blog", gin.H{
		"title": "Draft Notes", "excerpt": "Soon.", "content": "Soon.",
	}).Code)

	var posts []models.BlogPost
	s.decode(s.do(http.MethodGet, "/api/blog", nil), &posts)
	assert.Len(s.T(), posts, 1)

	assert.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/blog/all", nil).Code)
	s.decode(s.asAdmin(http.MethodGet, "/api/blog/all", nil), &posts)
	assert.Len(s.T(), posts, 2)

	var post models.BlogPost
	s.decode(s.do(http.MethodGet, "/api/blog/tempering-101", nil), &post)
	assert.Contains(s.T(), post.ContentHTML, "<strong>ghee</strong>")

	assert.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/api/blog/draft-notes", nil).Code)
}

func (s *RouterTestSuite) TestSettings() {
	w := s.do(http.MethodPut, "/api/settings/contact_email", gin.H{"value": "hi@spicepop.example"})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	w = s.asAdmin(http.MethodPut, "/api/settings/contact_email", gin.H{"value": "hi@spicepop.example"})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var settings []models.Setting
	s.decode(s.do(http.MethodGet, "/api/settings", nil), &settings)
	require.Len(s.T(), settings, 1)
	assert.Equal(s.T(), "hi@spicepop.example", settings[0].Value)
}

func (s *RouterTestSuite) TestCheckoutWhatsApp() {
	body := gin.H{
		"customerName": "Asha Rao", "customerEmail": "asha@example.com",
		"customerPhone": "+91 90000 00000", "shippingAddress": "12 Spice Lane, Kochi",
		"items": []gin.H{{"productId": 1, "name": "Saffron", "price": "499.50", "quantity": 2}},
	}

	w := s.do(http.MethodPost, "/api/checkout/whatsapp", body)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Message string `json:"message"`
		URL     string `json:"url"`
	}
	s.decode(w, &resp)
	assert.Contains(s.T(), resp.URL, "https://wa.me/919876543210?text=")
	assert.Contains(s.T(), resp.Message, "Saffron x2")

	w = s.do(http.MethodPost, "/api/checkout/whatsapp?format=qr", body)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "image/png", w.Header().Get("Content-Type"))
}

func (s *RouterTestSuite) TestCheckoutStubPayment() {
	order := s.createOrder()

	w := s.do(http.MethodPost, "/api/checkout/payment", gin.H{"orderId": order.ID})
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var intent struct {
		PaymentID string `json:"paymentId"`
	}
	s.decode(w, &intent)

	w = s.do(http.MethodPost, "/api/checkout/payment/confirm", gin.H{"orderId": order.ID, "paymentId": "pi_fake"})
	assert.Equal(s.T(), http.StatusPaymentRequired, w.Code)

	w = s.do(http.MethodPost, "/api/checkout/payment/confirm", gin.H{"orderId": order.ID, "paymentId": intent.PaymentID})
	require.Equal(s.T(), http.StatusOK, w.Code)
	var paid models.Order
	s.decode(w, &paid)
	assert.Equal(s.T(), models.OrderStatusPaid, paid.Status)

	w = s.do(http.MethodPost, "/api/checkout/payment", gin.H{"orderId": order.ID})
	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

// A stub reference that was never issued for the order cannot mark it paid.
func (s *RouterTestSuite) TestCheckoutConfirmRejectsUnissuedReference() {
	order := s.createOrder()

	w := s.do(http.MethodPost, "/api/checkout/payment/confirm", gin.H{"orderId": order.ID, "paymentId": "stub_forged"})
	assert.Equal(s.T(), http.StatusPaymentRequired, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/checkout/payment", gin.H{"orderId": order.ID})
	require.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/checkout/payment/confirm", gin.H{"orderId": order.ID, "paymentId": "stub_forged"})
	assert.Equal(s.T(), http.StatusPaymentRequired, w.Code)

	stored, err := s.mem.GetOrderByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusPending, stored.Status)
}

func (s *RouterTestSuite) TestUploadRequiresAdminAndImage() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(s.T(), err)
	_, _ = part.Write([]byte("not an image"))
	require.NoError(s.T(), mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", s.admin)
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	assert.Equal(s.T(), http.StatusBadRequest, s.asAdmin(http.MethodPost, "/api/uploads", gin.H{}).Code)
}

func (s *RouterTestSuite) TestUploadOversizedBodyIs413() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "huge.jpg")
	require.NoError(s.T(), err)
	_, err = part.Write(make([]byte, services.MaxUploadSize+2<<20))
	require.NoError(s.T(), err)
	require.NoError(s.T(), mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", s.admin)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
}

func (s *RouterTestSuite) TestProbesAndStaticRoutes() {
	w := s.do(http.MethodGet, "/status", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"status":"ok"`)

	w = s.do(http.MethodGet, "/api/health", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"database":"ok"`)

	w = s.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	assert.Equal(s.T(), "NOT_FOUND", s.errorCode(w))

	w = s.do(http.MethodGet, "/products/saffron", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `<div id=root>`)

	w = s.do(http.MethodGet, "/app.js", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "spicepop")

	w = s.do(http.MethodGet, "/../../etc/passwd", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `<div id=root>`)
	assert.NotContains(s.T(), w.Body.String(), "root:")

	w = s.do(http.MethodGet, "/blog/../app.js", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "spicepop")

	w = s.do(http.MethodGet, "/index.html", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `<div id=root>`)

	w = s.do(http.MethodPost, "/checkout", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestGeneratedSitemapAndRobots() {
	s.createCategory("Blends", "blends")
	s.createProduct(gin.H{"name": "Saffron", "description": "Threads.", "price": "499"})

	w := s.do(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "<loc>https://spicepop.example/products/saffron</loc>")
	assert.Contains(s.T(), w.Body.String(), "<loc>https://spicepop.example/category/blends</loc>")

	w = s.do(http.MethodGet, "/robots.txt", nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "Sitemap: https://spicepop.example/sitemap.xml")

	require.NoError(s.T(), os.WriteFile(filepath.Join(s.cfg.Frontend.StaticDir, "robots.txt"), []byte("User-agent: *\nDisallow: /\n"), 0o644))
	w = s.do(http.MethodGet, "/robots.txt", nil)
	assert.Equal(s.T(), "User-agent: *\nDisallow: /\n", w.Body.String())
}

func (s *RouterTestSuite) TestErrorsFollowAcceptLanguage() {
	w := s.do(http.MethodGet, "/api/products/missing", nil, "Accept-Language", "es")
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	var resp utils.APIResponse
	s.decode(w, &resp)
	assert.Equal(s.T(), i18n.T("es", i18n.KeyProductNotFound), resp.Error.Message)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
