// @title                       Staff Accounts API
// @version                     1.0
// @description                 Registration, login and administration of employee and manager accounts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/staff-accounts/internal/api"
	"github.com/99minutos/staff-accounts/internal/api/handler"
	"github.com/99minutos/staff-accounts/internal/core/ports"
	"github.com/99minutos/staff-accounts/internal/core/service"
	"github.com/99minutos/staff-accounts/internal/infrastructure/config"
	"github.com/99minutos/staff-accounts/internal/infrastructure/db/mongo"
	"github.com/99minutos/staff-accounts/internal/infrastructure/db/redis"
	"github.com/99minutos/staff-accounts/internal/infrastructure/db/sqldb"
	"github.com/99minutos/staff-accounts/internal/infrastructure/queue"
	"github.com/99minutos/staff-accounts/internal/infrastructure/token"
	"github.com/99minutos/staff-accounts/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Service: "staff-accounts"})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "staff-accounts",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Relational store ---
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
	store := sqldb.NewStore(db)

	checks := map[string]handler.DependencyCheck{
		"database": store.Ping,
	}

	// --- Audit trail (optional) ---
	var audit ports.AuditSink
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		repo := mongo.NewAuditRepository(mdb)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}

		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, repo, logger.Component("audit"))
		// Workers drain on Close, so they run on a context that outlives the signal.
		dispatcher.Start(context.WithoutCancel(ctx))
		defer dispatcher.Close()

		audit = dispatcher
		checks["mongodb"] = func(ctx context.Context) error {
			return mdb.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}
		log.Info().Str("database", cfg.Mongo.Database).Int("workers", cfg.Audit.Workers).Msg("audit trail enabled")
	}

	// --- Token revocation (optional) ---
	var revocations ports.TokenRevocations
	if cfg.RevocationEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		revocations = redis.NewRevocationList(rdb)
		checks["redis"] = redisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	}

	// --- Services ---
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := service.BcryptHasher{Cost: cfg.BcryptCost}

	accounts := service.NewAccountService(store, hasher, tokens, revocations, audit, logger.Component("accounts"))
	admin := service.NewAdminService(store, logger.Component("admin"))

	e := api.NewRouter(api.Dependencies{
		Accounts:    accounts,
		Admin:       admin,
		Identities:  store.Identities(),
		Tokens:      tokens,
		Revocations: revocations,
		Checks:      checks,
		Log:         logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func redisCheck(rdb *goredis.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
