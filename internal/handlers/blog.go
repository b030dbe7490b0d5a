// internal/handlers/blog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

type BlogHandler struct {
	blogService *services.BlogService
}

func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

// GET /api/blog
func (h *BlogHandler) GetPublishedPosts(c *gin.Context) {
	h.listPosts(c, false)
}

// GET /api/blog/all
func (h *BlogHandler) GetAllPosts(c *gin.Context) {
	h.listPosts(c, true)
}

func (h *BlogHandler) listPosts(c *gin.Context, includeDrafts bool) {
	posts, err := h.blogService.ListPosts(c.Request.Context(), includeDrafts)
	if err != nil {
		respondError(c, err, "blog_post")
		return
	}

	utils.SuccessResponse(c, posts)
}

// GET /api/blog/:slug
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPublishedPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "blog_post")
		return
	}

	utils.SuccessResponse(c, post)
}

// POST /api/blog
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req models.CreateBlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	author, _ := utils.GetUserFromContext(c)
	post, err := h.blogService.CreatePost(c.Request.Context(), author, &req)
	if err != nil {
		respondError(c, err, "blog_post")
		return
	}

	utils.CreatedResponse(c, post)
}

// PUT /api/blog/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "blog post")
	if !ok {
		return
	}

	var req models.UpdateBlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "blog_post")
		return
	}

	utils.SuccessResponse(c, post)
}

// DELETE /api/blog/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "blog post")
	if !ok {
		return
	}

	if err := h.blogService.DeletePost(c.Request.Context(), id); err != nil {
		respondError(c, err, "blog_post")
		return
	}

	utils.SuccessResponse(c, gin.H{"success": true})
}
