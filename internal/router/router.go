// internal/router/router.go
package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/cache"
	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/handlers"
	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/middleware"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

// Initialize wires services and handlers onto a gin engine. The returned
// func stops the rate limiters' cleanup goroutines.
func Initialize(store storage.Storage, listCache *cache.TTLCache, cfg *config.Config, log *logrus.Logger) (*gin.Engine, func(), error) {
	// Initialize services
	authService := services.NewAuthService(store, cfg, log)
	productService := services.NewProductService(store, listCache, log)
	categoryService := services.NewCategoryService(store, listCache, log)
	orderService := services.NewOrderService(store, log)
	blogService := services.NewBlogService(store, log)
	settingService := services.NewSettingService(store, log)
	checkoutService := services.NewCheckoutService(settingService, cfg)
	paymentService := services.NewPaymentService(store, cfg, log)
	uploadService, err := services.NewUploadService(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, categoryService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	blogHandler := handlers.NewBlogHandler(blogService)
	settingHandler := handlers.NewSettingHandler(settingService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, paymentService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	healthHandler := handlers.NewHealthHandler(store)
	seoHandler := handlers.NewSEOHandler(store, cfg.Frontend.BaseURL)

	limiter := middleware.NewMethodRateLimiter(cfg.RateLimit)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthMax, cfg.RateLimit.Window)
	stop := func() {
		limiter.Stop()
		authLimiter.Stop()
	}

	requireAdmin := middleware.RequireAdmin(authService)

	r := gin.New()
	r.MaxMultipartMemory = services.MaxUploadSize

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())

	// Liveness
	r.GET("/status", healthHandler.Status)

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	api.Use(limiter.Middleware())
	{
		api.GET("/health", healthHandler.Health)

		// Auth
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
		api.GET("/auth/check", requireAdmin, authHandler.Check)
		api.GET("/logout", authHandler.Logout)

		// Categories
		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", requireAdmin, categoryHandler.CreateCategory)
			categories.PUT("/:id", requireAdmin, categoryHandler.UpdateCategory)
			categories.DELETE("/:id", requireAdmin, categoryHandler.DeleteCategory)
		}

		// Products
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", requireAdmin, productHandler.CreateProduct)
			products.PUT("/:id", requireAdmin, productHandler.UpdateProduct)
			products.DELETE("/:id", requireAdmin, productHandler.DeleteProduct)
		}

		// Orders: checkout is public, everything else is back office.
		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", requireAdmin, orderHandler.GetOrders)
			orders.GET("/:id", requireAdmin, orderHandler.GetOrder)
			orders.PATCH("/:id/status", requireAdmin, orderHandler.UpdateOrderStatus)
		}

		// Blog
		blog := api.Group("/blog")
		{
			blog.GET("", blogHandler.GetPublishedPosts)
			blog.GET("/all", requireAdmin, blogHandler.GetAllPosts)
			blog.GET("/:slug", blogHandler.GetPost)
			blog.POST("", requireAdmin, blogHandler.CreatePost)
			blog.PUT("/:id", requireAdmin, blogHandler.UpdatePost)
			blog.DELETE("/:id", requireAdmin, blogHandler.DeletePost)
		}

		// Settings
		api.GET("/settings", settingHandler.GetSettings)
		api.PUT("/settings/:key", requireAdmin, settingHandler.UpdateSetting)

		// Checkout helpers
		checkout := api.Group("/checkout")
		{
			checkout.POST("/whatsapp", checkoutHandler.WhatsApp)
			checkout.POST("/payment", checkoutHandler.CreatePayment)
			checkout.POST("/payment/confirm", checkoutHandler.ConfirmPayment)
		}

		// Uploads
		api.POST("/uploads", requireAdmin, uploadHandler.UploadImage)
	}

	r.Static(strings.TrimSuffix(services.LocalUploadsPrefix, "/"), cfg.AWS.UploadsDir)

	// Prebuilt copies in the frontend bundle win over generated ones.
	r.GET("/sitemap.xml", staticOr(cfg.Frontend.StaticDir, "sitemap.xml", seoHandler.Sitemap))
	r.GET("/robots.txt", staticOr(cfg.Frontend.StaticDir, "robots.txt", seoHandler.Robots))

	r.NoRoute(spaFallback(cfg.Frontend.StaticDir))

	return r, stop, nil
}

// staticOr serves name from dir when present and falls back to handler.
func staticOr(dir, name string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		file := filepath.Join(dir, name)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		handler(c)
	}
}

// spaFallback serves files from the SPA bundle and index.html for any other
// GET outside /api, leaving client-side routing to the app.
func spaFallback(dir string) gin.HandlerFunc {
	fs := http.Dir(dir)

	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead

		if !strings.HasPrefix(reqPath, "/api/") && reqPath != "/api" && isRead {
			if serveFromDir(c, fs, path.Clean("/"+reqPath)) || serveFromDir(c, fs, "/index.html") {
				return
			}
		}

		lang := utils.GetLangFromContext(c)
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyRouteNotFound), nil)
	}
}

// serveFromDir writes the regular file name from fs. It reports false when
// there is no such file.
func serveFromDir(c *gin.Context, fs http.FileSystem, name string) bool {
	f, err := fs.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}
