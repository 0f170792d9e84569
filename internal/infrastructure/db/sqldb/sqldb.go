// Package sqldb stores identities and profiles in a relational database
// through gorm. Postgres is used in production, SQLite locally and in tests.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/99minutos/staff-accounts/internal/core/ports"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultTimeout = 10 * time.Second
)

// Config captures the settings required to open the database.
type Config struct {
	Driver string
	DSN    string
	// Debug logs every SQL statement.
	Debug bool
}

// Open connects to the configured database, verifies it with a ping and
// migrates the schema.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("sqldb: unsupported driver %q", cfg.Driver)
	}

	logLevel := gormlogger.Warn
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("sqldb open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqldb handle: %w", err)
	}

	if db.Dialector.Name() == DriverSQLite {
		// SQLite allows one writer; a single connection also keeps
		// in-memory databases and the foreign_keys pragma consistent.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("sqldb enable foreign keys: %w", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqldb ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the identities and profile tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&identityModel{}, &employeeProfileModel{}, &managerProfileModel{}); err != nil {
		return fmt.Errorf("sqldb migrate: %w", err)
	}
	return nil
}

// Store hands out repositories bound to one *gorm.DB, which is either the
// root connection or an open transaction.
type Store struct {
	db *gorm.DB
}

var _ ports.Transactor = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Identities() ports.IdentityRepository {
	return &IdentityRepository{db: s.db}
}

func (s *Store) Profiles() ports.ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// WithinTransaction runs fn in a transaction. gorm commits when fn returns
// nil and rolls back on error or panic.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx})
	})
}

// Ping checks the underlying connection; used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicate reports a unique or primary key violation. TranslateError
// covers both drivers; the message check catches untranslated errors.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
