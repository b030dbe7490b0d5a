// internal/utils/response.go
package utils

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/cache"
	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

var exposeErrors = true

// SetExposeErrors controls whether 500 responses include the underlying
// error text. Disabled in production.
func SetExposeErrors(expose bool) {
	exposeErrors = expose
}

// Success bodies are the bare resource, which is what the storefront client
// reads. Only errors use the envelope.

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RawJSONResponse writes already-encoded JSON, used for cached list bodies.
func RawJSONResponse(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAuthRequired)
	}
	c.Header("WWW-Authenticate", `Basic realm="spicepop-admin"`)
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func NotFoundResponse(c *gin.Context, resource string) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, resource+".not_found")
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message, nil)
}

func TooManyRequestsResponse(c *gin.Context, retryAfterSeconds int) {
	lang := GetLangFromContext(c)
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", i18n.T(lang, i18n.KeyRateLimitExceeded), nil)
}

func GatewayTimeoutResponse(c *gin.Context) {
	lang := GetLangFromContext(c)
	ErrorResponse(c, http.StatusGatewayTimeout, "TIMEOUT", i18n.T(lang, i18n.KeyRequestTimeout), nil)
}

func InternalErrorResponse(c *gin.Context, err error) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyInternalError)
	if err != nil && exposeErrors {
		message = err.Error()
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, errs)
}

// HandleError maps a service or storage error onto the HTTP error taxonomy.
// resource names the entity for not-found and duplicate-slug messages.
func HandleError(c *gin.Context, err error, resource string) {
	lang := GetLangFromContext(c)

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		ValidationErrorResponse(c, GetValidationErrors(validationErrs))
	case errors.Is(err, storage.ErrNotFound):
		NotFoundResponse(c, resource)
	case errors.Is(err, storage.ErrDuplicate):
		ConflictResponse(c, i18n.T(lang, i18n.KeyValidationSlugTaken, resource))
	case errors.Is(err, cache.ErrLoadTimeout), errors.Is(err, context.DeadlineExceeded):
		GatewayTimeoutResponse(c)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(RequestIDKey),
		}).Error("Request failed")
		InternalErrorResponse(c, err)
	}
}

const (
	LangKey      = "lang"
	RequestIDKey = "request_id"
	UserKey      = "user"
)

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(LangKey); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}

func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	if v, exists := c.Get(UserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user, true
		}
	}
	return nil, false
}

// ParseIDParam reads a positive numeric path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
