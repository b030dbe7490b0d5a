// internal/handlers/seo.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/seo"
	"github.com/spicepop/storefront/internal/storage"
)

// SEOHandler generates sitemap.xml and robots.txt from the live catalog.
type SEOHandler struct {
	store   storage.Storage
	baseURL string
}

func NewSEOHandler(store storage.Storage, baseURL string) *SEOHandler {
	return &SEOHandler{
		store:   store,
		baseURL: baseURL,
	}
}

// GET /sitemap.xml
func (h *SEOHandler) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.store.GetCategories(ctx)
	if err != nil {
		respondError(c, err, "category")
		return
	}
	products, err := h.store.GetProducts(ctx, models.ProductFilter{})
	if err != nil {
		respondError(c, err, "product")
		return
	}
	posts, err := h.store.GetBlogPosts(ctx, true)
	if err != nil {
		respondError(c, err, "blog_post")
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL)
	b.AddStaticPages()

	entries := make([]seo.Entry, 0, len(categories))
	for _, cat := range categories {
		entries = append(entries, seo.Entry{Slug: cat.Slug, UpdatedAt: cat.UpdatedAt})
	}
	b.AddCategories(entries)

	entries = make([]seo.Entry, 0, len(products))
	for _, p := range products {
		entries = append(entries, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddProducts(entries)

	entries = make([]seo.Entry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddBlogPosts(entries)

	body, err := b.Build()
	if err != nil {
		respondError(c, err, "sitemap")
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// GET /robots.txt
func (h *SEOHandler) Robots(c *gin.Context) {
	body := seo.BuildRobots(seo.RobotsConfig{
		BaseURL:       h.baseURL,
		DisallowPaths: seo.DefaultDisallow,
	})

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
