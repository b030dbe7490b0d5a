// internal/handlers/helpers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

// bindJSON decodes the request body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request body"), err.Error())
		return false
	}
	return true
}

// parseID reads the :id path parameter, writing a 400 when it is not a
// positive integer.
func parseID(c *gin.Context, resource string) (uint, bool) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalidID, resource), nil)
	}
	return id, ok
}

// respondError maps service errors to responses, deferring to
// utils.HandleError for storage and validation errors.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrSlugUnderivable):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "slug"), nil)
	case errors.Is(err, services.ErrUnknownCategory):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryNotFound), gin.H{"field": "categoryId"})
	case errors.Is(err, services.ErrInvalidSettingKey):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "setting key"), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrNotAdmin):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthNotAdmin))
	case errors.Is(err, services.ErrNoWhatsAppNumber):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "CHECKOUT_UNAVAILABLE", i18n.T(lang, i18n.KeyCheckoutNoNumber), nil)
	case errors.Is(err, services.ErrOrderAlreadyPaid):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyPaymentAlreadyPaid))
	case errors.Is(err, services.ErrPaymentNotSucceeded):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_REQUIRED", i18n.T(lang, i18n.KeyPaymentNotSucceeded), nil)
	case errors.Is(err, services.ErrPaymentFailed):
		utils.ErrorResponse(c, http.StatusBadGateway, "PAYMENT_FAILED", i18n.T(lang, i18n.KeyPaymentFailed), nil)
	case errors.Is(err, services.ErrUnsupportedImage):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
	case errors.Is(err, services.ErrImageTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
	default:
		utils.HandleError(c, err, resource)
	}
}

// writeCachedJSON writes a cached list body with an ETag, answering 304 when
// the client already has it.
func writeCachedJSON(c *gin.Context, body []byte) {
	etag := utils.ETag(body)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")

	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	utils.RawJSONResponse(c, body)
}
