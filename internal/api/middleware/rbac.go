package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

// IdentityKey is the echo context key holding the *domain.Identity loaded by
// RequireStaff.
const IdentityKey = "identity"

// RequireStaff admits only identities that still exist, are active and are
// staff according to the store. The staff claim in the token is not trusted.
// It must be mounted after Auth.
func RequireStaff(identities ports.IdentityRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(ports.TokenClaims)
			if !ok || claims.IdentityID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			identity, err := identities.FindByID(c.Request().Context(), claims.IdentityID)
			if errors.Is(err, domain.ErrIdentityNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
			}
			if err != nil {
				return err
			}
			if !identity.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "account is inactive")
			}
			if !identity.IsStaff {
				return echo.NewHTTPError(http.StatusForbidden, "staff access required")
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}
