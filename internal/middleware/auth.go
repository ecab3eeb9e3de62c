package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

// sessionExpiredMessage is the single body returned for every authentication
// failure. Missing, malformed, expired and revoked sessions are not
// distinguished externally.
const sessionExpiredMessage = "Session Expired. Login again"

const userContextKey = "user"

// AuthMiddleware is the authentication gate. It locates a session token
// (cookie first, then bearer header), validates it, and re-resolves the
// identity against the user store so that role and tenant are current, not
// the token's snapshot. The fresh user record is attached to the context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		var rawToken string
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			rawToken = cookie.Value
		} else if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				rawToken = parts[1]
			}
		}

		if rawToken == "" {
			log.Debug("No session token on request")
			prometheus.RecordAuthError("missing_token")
			return unauthenticated(c)
		}

		claims, err := jwtutil.ValidateToken(rawToken)
		if err != nil {
			log.Debug("Invalid session token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return unauthenticated(c)
		}

		// The token only proves identity; the user may have been deleted or
		// changed role since issuance, so look it up fresh.
		user, err := store.FindUserByID(database.GetDB(), claims.UserID)
		if err != nil {
			log.Error("Failed to resolve session user", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"message": "Internal Server Error",
			})
		}
		if user == nil {
			log.Debug("Session user no longer exists", zap.String("user_id", claims.UserID))
			prometheus.RecordAuthError("user_not_found")
			return unauthenticated(c)
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the authenticated user attached by AuthMiddleware, or
// nil on an unauthenticated request.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"message": sessionExpiredMessage,
	})
}
