package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-accounts/internal/core/ports"
)

// ClaimsKey is the echo context key holding the verified ports.TokenClaims.
const ClaimsKey = "claims"

// Auth validates the bearer token and injects its claims into context.
// revocations may be nil, in which case tokens are honoured until expiry.
func Auth(verifier ports.TokenVerifier, revocations ports.TokenRevocations) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revocations != nil && claims.TokenID != "" {
				revoked, err := revocations.IsRevoked(c.Request().Context(), claims.TokenID)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "token revocation check failed").SetInternal(err)
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked")
				}
			}

			c.Set(ClaimsKey, claims)
			c.Set("identity_id", claims.IdentityID)
			c.Set("role", string(claims.Role))
			c.Set("staff", claims.Staff)

			return next(c)
		}
	}
}
