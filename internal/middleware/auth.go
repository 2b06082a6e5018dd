package middleware

import (
	"net/http"
	"strings"

	"github.com/AaronAlejandrou/store-sicua-back/pkg/jwtutil"
	"github.com/AaronAlejandrou/store-sicua-back/pkg/logger"
	"github.com/AaronAlejandrou/store-sicua-back/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the store session token
var SessionCookieName = "session"

// AuthMiddleware resolves the current store from the session cookie (or a
// Bearer token) and stores its id in the request context. Every protected
// handler reads the store id from there, never from shared state.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			log.Warn("Missing session token")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid session token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
		}

		if claims.StoreID == "" {
			log.Warn("Session token does not contain store_id")
			prometheus.RecordAuthError("missing_store_id")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}

		// Store tenant info in context for later use
		c.Set("store_id", claims.StoreID)
		c.Set("store_email", claims.Email)

		return next(c)
	}
}

// tokenFromRequest reads the session token from the cookie or, failing that,
// from a Bearer Authorization header.
func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// GetStoreIDFromContext retrieves the store ID from the context.
// Returns "", false if no store is authenticated.
func GetStoreIDFromContext(c echo.Context) (string, bool) {
	storeID, ok := c.Get("store_id").(string)
	if !ok || storeID == "" {
		return "", false
	}
	return storeID, true
}
