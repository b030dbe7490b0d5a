// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthNotAdmin           = "auth.not_admin"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Not found, keyed by resource
	KeyCategoryNotFound = "category.not_found"
	KeyProductNotFound  = "product.not_found"
	KeyOrderNotFound    = "order.not_found"
	KeyBlogPostNotFound = "blog_post.not_found"
	KeySettingNotFound  = "setting.not_found"
	KeyRouteNotFound    = "route.not_found"

	// Validation
	KeyValidationInvalid   = "validation.invalid"
	KeyValidationSlugTaken = "validation.slug_taken"
	KeyValidationInvalidID = "validation.invalid_id"

	// Limits and failures
	KeyRateLimitExceeded = "rate_limit.exceeded"
	KeyRequestTimeout    = "request.timeout"
	KeyInternalError     = "error.internal"

	// File upload
	KeyFileRequired     = "file.required"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
	KeyFileUploadFailed = "file.upload_failed"

	// Payments
	KeyPaymentFailed       = "payment.failed"
	KeyPaymentNotSucceeded = "payment.not_succeeded"
	KeyPaymentAlreadyPaid  = "payment.already_paid"

	// Checkout
	KeyCheckoutNoNumber = "checkout.no_whatsapp_number"
)
