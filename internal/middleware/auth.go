// internal/middleware/auth.go
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/services"
	"github.com/spicepop/storefront/internal/utils"
)

// Authenticator resolves an Authorization header value to a user.
type Authenticator interface {
	AuthenticateHeader(ctx context.Context, header string) (*models.User, error)
}

// RequireAdmin admits requests carrying valid admin credentials, either a
// replayed Basic header or a Bearer token from login. Credentials are checked
// on every request; there is no server-side session.
func RequireAdmin(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		header := c.GetHeader("Authorization")
		if header == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			return
		}

		user, err := auth.AuthenticateHeader(c.Request.Context(), header)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			case errors.Is(err, services.ErrInvalidToken):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			case errors.Is(err, services.ErrNotAdmin):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthNotAdmin))
			case errors.Is(err, services.ErrInvalidCredentials):
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			default:
				utils.HandleError(c, err, "user")
			}
			return
		}

		c.Set(utils.UserKey, user)
		c.Next()
	}
}
