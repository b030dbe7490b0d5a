// internal/handlers/setting.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

type SettingHandler struct {
	settingService *services.SettingService
}

func NewSettingHandler(settingService *services.SettingService) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
	}
}

// GET /api/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "setting")
		return
	}

	utils.SuccessResponse(c, settings)
}

// PUT /api/settings/:key
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	var req models.UpdateSettingRequest
	if !bindJSON(c, &req) {
		return
	}

	setting, err := h.settingService.PutSetting(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		respondError(c, err, "setting")
		return
	}

	utils.SuccessResponse(c, setting)
}
