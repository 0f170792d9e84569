package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-accounts/internal/core/ports"
)

// AdminHandler exposes the staff-only account browser.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// List handles GET /api/admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role       query     string  false  "Filter by role (employee, manager)"
// @Param        is_active  query     bool    false  "Filter by active flag"
// @Param        search     query     string  false  "Case-insensitive match on email, first or last name"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 20, max 100)"
// @Success      200        {object}  listUsersResponse
// @Failure      400        {object}  map[string]any
// @Failure      401        {object}  map[string]any
// @Failure      403        {object}  map[string]any
// @Router       /api/admin/users [get]
func (h *AdminHandler) List(c echo.Context) error {
	filter := ports.ListIdentitiesFilter{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	}

	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active must be a boolean")
		}
		filter.IsActive = &active
	}

	var err error
	if filter.Page, err = intQuery(c, "page"); err != nil {
		return err
	}
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		return err
	}

	res, err := h.admin.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]adminUserResponse, 0, len(res.Items))
	for _, identity := range res.Items {
		items = append(items, toAdminUserResponse(identity))
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get handles GET /api/admin/users/:id.
//
// @Summary      Get an account with its profile
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  adminUserResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	identity, err := h.admin.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminUserResponse(identity))
}

// SetActive handles PATCH /api/admin/users/:id/active.
//
// @Summary      Activate or deactivate an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Account ID"
// @Param        body  body      setActiveRequest  true  "New active flag"
// @Success      200   {object}  adminUserResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/admin/users/{id}/active [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := h.admin.SetActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminUserResponse(identity))
}

// Delete handles DELETE /api/admin/users/:id. The profile goes with it.
//
// @Summary      Delete an account
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Account ID"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}

func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}
