package main

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/financial-planner-server/internal/config"
	"github.com/rogerio-castellano/financial-planner-server/internal/db"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/redissvc"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
)

// openCredentialStore builds the repository selected by CREDENTIAL_BACKEND.
// The returned func releases its connections.
func openCredentialStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (repo.CredentialRepository, func(), error) {
	storeLogger := logger.WithComponent(log.ComponentStorage)

	if cfg.CredentialBackend == config.BackendMemory {
		storeLogger.Warn("Using in-memory credential store; linked institutions are lost on restart")
		return repo.NewInMemoryCredentialRepository(), func() {}, nil
	}

	sealer, err := repo.NewSealer(cfg.CredentialKey)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.CredentialBackend {
	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.MigratePostgres(database); err != nil {
			database.Close()
			return nil, nil, err
		}
		storeLogger.Info("Connected to Postgres", log.FieldBackend, cfg.CredentialBackend)
		return repo.NewPostgresCredentialRepository(database, sealer), func() { database.Close() }, nil

	case config.BackendSQLite:
		database, err := db.OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.MigrateSQLite(database); err != nil {
			database.Close()
			return nil, nil, err
		}
		storeLogger.Info("Opened SQLite database", log.FieldBackend, cfg.CredentialBackend, "path", cfg.SQLiteDBPath)
		return repo.NewSQLiteCredentialRepository(database, sealer), func() { database.Close() }, nil

	case config.BackendRedis:
		rdb, err := redissvc.Connect(ctx, redissvc.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		storeLogger.Info("Connected to Redis", log.FieldBackend, cfg.CredentialBackend, "addr", cfg.RedisAddr)
		return repo.NewRedisCredentialRepository(rdb, sealer), func() { rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}
