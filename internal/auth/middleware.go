package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ClaimsContextKey is the key for storing claims in context
	ClaimsContextKey ContextKey = "claims"
	// TokenContextKey is the key for storing the raw access token in context
	TokenContextKey ContextKey = "token"

	// CookieName is the session cookie set by the ocpctl login flow
	CookieName = "ocpctl_token"

	// AnonymousUserID identifies the user when authentication is disabled
	AnonymousUserID = "anonymous"
)

// RequireSession is middleware that requires a valid access token, read from
// the session cookie or an Authorization bearer header. Browsers without a
// session are redirected to loginURL when it is set.
func RequireSession(auth *Auth, loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := extractToken(c)
			if tokenString == "" {
				return unauthenticated(c, loginURL, "missing session")
			}

			claims, err := auth.ValidateAccessToken(tokenString)
			if err != nil {
				return unauthenticated(c, loginURL, "invalid or expired token")
			}

			c.Set(string(ClaimsContextKey), claims)
			c.Set(string(TokenContextKey), tokenString)

			return next(c)
		}
	}
}

// Anonymous is middleware for development setups without authentication
func Anonymous() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(string(ClaimsContextKey), &Claims{UserID: AnonymousUserID})
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

func unauthenticated(c echo.Context, loginURL, message string) error {
	if loginURL != "" && c.Request().Method == http.MethodGet {
		return c.Redirect(http.StatusSeeOther, loginURL)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, message)
}

// GetClaims retrieves claims from echo context
func GetClaims(c echo.Context) (*Claims, error) {
	claims, ok := c.Get(string(ClaimsContextKey)).(*Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return claims, nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c echo.Context) (string, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// GetToken returns the raw access token of the request, empty when the
// request is anonymous
func GetToken(c echo.Context) string {
	token, _ := c.Get(string(TokenContextKey)).(string)
	return token
}
