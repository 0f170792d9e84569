package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-accounts/internal/api/middleware"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

// ctxClaims returns the token claims injected by the Auth middleware. Their
// absence means the route was mounted without it, so the request is rejected.
func ctxClaims(c echo.Context) (ports.TokenClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(ports.TokenClaims)
	if !ok || claims.IdentityID == 0 {
		return ports.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
