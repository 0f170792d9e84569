package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-accounts/internal/api/metrics"
	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new account and, when a profile payload for its role is
// sent, the matching profile.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterInput  true  "Account details with optional employee_profile or manager_profile"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterInput
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationErrorsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		metrics.RegistrationErrorsTotal.WithLabelValues(registrationFailureReason(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.
		WithLabelValues(string(res.Identity.Role), strconv.FormatBool(res.Identity.Profile != nil)).
		Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: toUserResponse(res.Identity)})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginInput
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.accounts.Login(c.Request().Context(), req)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginFailureResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.Identity)})
}

// Logout acknowledges the logout. Tokens are stateless; they stay valid until
// expiry unless revocation is enabled.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// CurrentUser returns the authenticated account with its profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	identity, err := h.accounts.CurrentUser(c.Request().Context(), claims.IdentityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(identity))
}

func registrationFailureReason(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, domain.ErrEmailTaken):
		return "email_taken"
	default:
		return "internal"
	}
}

func loginFailureResult(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.As(err, &verr):
		return "invalid_payload"
	default:
		return "error"
	}
}
