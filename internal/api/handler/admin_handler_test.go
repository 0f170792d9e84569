package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
	"github.com/99minutos/staff-accounts/internal/pkg/validate"
)

type stubAdminService struct {
	listFn      func(ctx context.Context, f ports.ListIdentitiesFilter) (*ports.ListIdentitiesResult, error)
	getFn       func(ctx context.Context, id int64) (*domain.Identity, error)
	setActiveFn func(ctx context.Context, id int64, active bool) (*domain.Identity, error)
	deleteFn    func(ctx context.Context, id int64) error
}

func (s *stubAdminService) ListUsers(ctx context.Context, f ports.ListIdentitiesFilter) (*ports.ListIdentitiesResult, error) {
	return s.listFn(ctx, f)
}

func (s *stubAdminService) GetUser(ctx context.Context, id int64) (*domain.Identity, error) {
	return s.getFn(ctx, id)
}

func (s *stubAdminService) SetActive(ctx context.Context, id int64, active bool) (*domain.Identity, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func newAdminEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validate.New()
	return e
}

func TestAdminHandler_List(t *testing.T) {
	e := newAdminEcho()
	stub := &stubAdminService{
		listFn: func(ctx context.Context, f ports.ListIdentitiesFilter) (*ports.ListIdentitiesResult, error) {
			if f.Role != "employee" || f.Search != "ada" || f.Page != 2 || f.Limit != 5 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			if f.IsActive == nil || !*f.IsActive {
				t.Fatalf("expected is_active=true filter")
			}
			return &ports.ListIdentitiesResult{
				Items: []*domain.Identity{employee()}, Total: 6, Page: 2, Limit: 5, TotalPages: 2,
			}, nil
		},
	}
	h := NewAdminHandler(stub)

	req, rec := jsonRequest(http.MethodGet, "/api/admin/users?role=employee&is_active=true&search=ada&page=2&limit=5", "")
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	items, ok := resp["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected items: %+v", resp)
	}
	item := items[0].(map[string]any)
	if item["is_active"] != true || item["is_staff"] != false || item["full_name"] != "Ada Lovelace" {
		t.Fatalf("expected admin flags: %+v", item)
	}
	if resp["total_pages"] != float64(2) {
		t.Fatalf("unexpected paging: %+v", resp)
	}
}

func TestAdminHandler_List_BadQuery(t *testing.T) {
	e := newAdminEcho()
	h := NewAdminHandler(&stubAdminService{})

	for _, q := range []string{"?is_active=maybe", "?page=two", "?limit=x"} {
		req, rec := jsonRequest(http.MethodGet, "/api/admin/users"+q, "")
		err := h.List(e.NewContext(req, rec))

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 HTTPError, got %v", q, err)
		}
	}
}

func TestAdminHandler_Get(t *testing.T) {
	e := newAdminEcho()
	stub := &stubAdminService{
		getFn: func(ctx context.Context, id int64) (*domain.Identity, error) {
			if id != 1 {
				return nil, domain.ErrIdentityNotFound
			}
			return employee(), nil
		},
	}
	h := NewAdminHandler(stub)

	req, rec := jsonRequest(http.MethodGet, "/", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, ok := decode(t, rec)["employee_profile"]; !ok {
		t.Fatalf("expected profile inline")
	}

	req, rec = jsonRequest(http.MethodGet, "/", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.Get(c); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}

	req, rec = jsonRequest(http.MethodGet, "/", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	var he *echo.HTTPError
	if err := h.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %v", err)
	}
}

func TestAdminHandler_SetActive(t *testing.T) {
	e := newAdminEcho()
	stub := &stubAdminService{
		setActiveFn: func(ctx context.Context, id int64, active bool) (*domain.Identity, error) {
			identity := employee()
			identity.IsActive = active
			return identity, nil
		},
	}
	h := NewAdminHandler(stub)

	req, rec := jsonRequest(http.MethodPatch, "/", `{"is_active":false}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode(t, rec)["is_active"] != false {
		t.Fatalf("expected inactive account: %s", rec.Body.String())
	}

	req, rec = jsonRequest(http.MethodPatch, "/", `{}`)
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	var verr *domain.ValidationError
	if err := h.SetActive(c); !errors.As(err, &verr) || len(verr.Fields["is_active"]) == 0 {
		t.Fatalf("expected is_active ValidationError, got %v", err)
	}
}

func TestAdminHandler_Delete(t *testing.T) {
	e := newAdminEcho()
	deleted := int64(0)
	stub := &stubAdminService{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	h := NewAdminHandler(stub)

	req, rec := jsonRequest(http.MethodDelete, "/", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 9 {
		t.Fatalf("unexpected result: %d deleted=%d", rec.Code, deleted)
	}
}
