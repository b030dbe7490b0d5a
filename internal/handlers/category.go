// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// GET /api/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	body, err := h.categoryService.ListCategoriesJSON(c.Request.Context())
	if err != nil {
		respondError(c, err, "category")
		return
	}

	writeCachedJSON(c, body)
}

// GET /api/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, category)
}

// POST /api/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.CreatedResponse(c, category)
}

// PUT /api/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /api/categories/:id
//
// Products and blog posts in the category are kept with categoryId cleared.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{"success": true})
}
