package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fercho159-aq/taskflow/internal/config"
	"github.com/fercho159-aq/taskflow/internal/storage"
	"github.com/fercho159-aq/taskflow/internal/storage/postgres"
	"github.com/fercho159-aq/taskflow/internal/storage/sqlite"
)

var globalStore storage.Store

// MustOpenStorage connects the backend selected by STORAGE_DRIVER.
func MustOpenStorage() {
	cfg := config.Global()
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		globalStore = postgres.New(mustConnectPostgres(cfg.Postgres))
	case config.DriverSQLite:
		globalStore = mustOpenSQLite(cfg.SQLite)
	}
}

func mustConnectPostgres(cfg config.PostgresConfig) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	return pool
}

func mustOpenSQLite(cfg config.SQLiteConfig) storage.Store {
	store, err := sqlite.Open(cfg.Path)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", cfg.Path).
			Msg("failed to open sqlite database")
		panic(err)
	}
	globalLogger.Info().
		Str("path", cfg.Path).
		Msg("opened sqlite database")

	return store
}

// MustMigrate creates any missing tables.
func MustMigrate(ctx context.Context) {
	err := globalStore.Migrate(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to migrate storage")
		panic(err)
	}
	globalLogger.Info().Msg("migrated storage")
}

func CloseStorage() {
	if globalStore == nil {
		return
	}
	err := globalStore.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	globalLogger.Info().Msg("closed storage")
}
