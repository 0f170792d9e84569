package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
	"github.com/99minutos/staff-accounts/internal/core/service"
	"github.com/99minutos/staff-accounts/internal/infrastructure/token"
)

func newAccounts(t *testing.T) (*service.AccountService, *Store) {
	t.Helper()
	store := NewStore(openTestDB(t))
	accounts := service.NewAccountService(
		store,
		service.BcryptHasher{Cost: bcrypt.MinCost},
		token.NewService("test-secret", time.Hour),
		nil,
		nil,
		zerolog.Nop(),
	)
	return accounts, store
}

func TestProvisioning_EmployeeWithProfile(t *testing.T) {
	accounts, store := newAccounts(t)
	ctx := context.Background()

	res, err := accounts.Register(ctx, ports.RegisterInput{
		Email: "ada@example.com", Password: "pw", FirstName: "Ada", LastName: "Lovelace",
		EmployeeProfile: &ports.EmployeeProfileInput{Department: "Eng", Position: "Dev"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if n := countRows(t, store.db, &identityModel{}); n != 1 {
		t.Fatalf("expected 1 identity, got %d", n)
	}
	profile, err := store.Profiles().ProfileFor(ctx, res.Identity)
	if err != nil {
		t.Fatalf("profile for: %v", err)
	}
	emp, ok := profile.(*domain.EmployeeProfile)
	if !ok || emp.LeaveBalance != domain.DefaultLeaveBalance {
		t.Fatalf("unexpected profile: %#v", profile)
	}

	login, err := accounts.Login(ctx, ports.LoginInput{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Identity.EmployeeProfile() == nil {
		t.Fatalf("expected profile on login")
	}
}

func TestProvisioning_ManagerWithoutProfile(t *testing.T) {
	accounts, store := newAccounts(t)

	_, err := accounts.Register(context.Background(), ports.RegisterInput{
		Email: "grace@example.com", Password: "pw", FirstName: "Grace", LastName: "Hopper", Role: "manager",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := countRows(t, store.db, &identityModel{}); n != 1 {
		t.Fatalf("expected 1 identity, got %d", n)
	}
	if n := countRows(t, store.db, &managerProfileModel{}); n != 0 {
		t.Fatalf("expected no manager profile, got %d", n)
	}
}

func TestProvisioning_ProfileFailureRollsBackIdentity(t *testing.T) {
	accounts, store := newAccounts(t)
	if err := store.db.Migrator().DropTable(&employeeProfileModel{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := accounts.Register(context.Background(), ports.RegisterInput{
		Email: "ada@example.com", Password: "pw", FirstName: "Ada", LastName: "Lovelace",
		EmployeeProfile: &ports.EmployeeProfileInput{Department: "Eng", Position: "Dev"},
	})

	var perr *domain.ProvisioningError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProvisioningError, got %v", err)
	}
	if n := countRows(t, store.db, &identityModel{}); n != 0 {
		t.Fatalf("expected identity to be rolled back, got %d rows", n)
	}
}

func TestProvisioning_DuplicateEmail(t *testing.T) {
	accounts, store := newAccounts(t)
	ctx := context.Background()
	in := ports.RegisterInput{Email: "ada@example.com", Password: "pw", FirstName: "Ada", LastName: "Lovelace"}

	if _, err := accounts.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in.Email = "ada@EXAMPLE.com"
	_, err := accounts.Register(ctx, in)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if n := countRows(t, store.db, &identityModel{}); n != 1 {
		t.Fatalf("expected 1 identity, got %d", n)
	}
}
