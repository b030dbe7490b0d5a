// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

type ProductHandler struct {
	productService  *services.ProductService
	categoryService *services.CategoryService
}

func NewProductHandler(productService *services.ProductService, categoryService *services.CategoryService) *ProductHandler {
	return &ProductHandler{
		productService:  productService,
		categoryService: categoryService,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filter models.ProductFilter

	// ?category= takes an id or a slug.
	if ref := c.Query("category"); ref != "" {
		category, err := h.categoryService.GetCategory(c.Request.Context(), ref)
		if err != nil {
			respondError(c, err, "category")
			return
		}
		filter.CategoryID = &category.ID
	}

	if featured := c.Query("featured"); featured != "" {
		filter.FeaturedOnly, _ = strconv.ParseBool(featured)
	}

	body, err := h.productService.ListProductsJSON(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	writeCachedJSON(c, body)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"success": true})
}
