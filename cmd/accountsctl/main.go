// Command accountsctl runs administrative tasks against the accounts database.
//
//	accountsctl createsuperuser -email root@example.com -password ... [-first-name R] [-last-name Oot]
//
// Database settings are read from the same environment as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/service"
	"github.com/99minutos/staff-accounts/internal/infrastructure/config"
	"github.com/99minutos/staff-accounts/internal/infrastructure/db/sqldb"
	"github.com/99minutos/staff-accounts/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Options{Level: "info", Pretty: true, Service: "accountsctl"})

	if err := run(context.Background(), os.Args[1:], os.Stdout, log); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, log zerolog.Logger) error {
	if len(args) == 0 {
		return errors.New("usage: accountsctl createsuperuser [flags]")
	}

	switch args[0] {
	case "createsuperuser":
		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}
		return createSuperuser(ctx, cfg, args[1:], out, log)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

type superuserFlags struct {
	email     string
	password  string
	firstName string
	lastName  string
}

func parseSuperuserFlags(args []string) (superuserFlags, error) {
	var f superuserFlags
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.StringVar(&f.email, "email", "", "email address (required)")
	fs.StringVar(&f.password, "password", "", "password (defaults to $ACCOUNTS_SUPERUSER_PASSWORD)")
	fs.StringVar(&f.firstName, "first-name", "", "first name")
	fs.StringVar(&f.lastName, "last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	if f.password == "" {
		f.password = os.Getenv("ACCOUNTS_SUPERUSER_PASSWORD")
	}
	if strings.TrimSpace(f.email) == "" {
		return f, errors.New("-email is required")
	}
	if f.password == "" {
		return f, errors.New("-password or ACCOUNTS_SUPERUSER_PASSWORD is required")
	}
	return f, nil
}

func createSuperuser(ctx context.Context, cfg *config.Config, args []string, out io.Writer, log zerolog.Logger) error {
	f, err := parseSuperuserFlags(args)
	if err != nil {
		return err
	}

	db, err := sqldb.Open(ctx, sqldb.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.Database.Debug,
	})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	store := service.NewCredentialStore(
		sqldb.NewStore(db).Identities(),
		service.BcryptHasher{Cost: cfg.BcryptCost},
	)
	identity, err := store.CreateSuperuser(ctx, service.NewIdentity{
		Email:     f.email,
		Password:  f.password,
		FirstName: f.firstName,
		LastName:  f.lastName,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		return fmt.Errorf("an account with email %s already exists", domain.NormalizeEmail(f.email))
	}
	if err != nil {
		return err
	}

	log.Info().Int64("identity_id", identity.ID).Str("email", identity.Email).Msg("superuser created")
	fmt.Fprintf(out, "Superuser %s created (id %d).\n", identity.Email, identity.ID)
	return nil
}
