// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, resp)
}

// GET /api/auth/check
func (h *AuthHandler) Check(c *gin.Context) {
	user, _ := utils.GetUserFromContext(c)

	utils.SuccessResponse(c, gin.H{
		"authenticated": true,
		"user":          user,
	})
}

// GET /api/logout
//
// There is no server-side session; the client discards its stored header.
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLogoutSuccess),
	})
}
