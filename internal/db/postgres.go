package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func ConnectPostgres(ctx context.Context, dsn string, log *zap.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, eris.New("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "parse DATABASE_URL")
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, eris.Wrap(err, "open postgres pool")
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres connection failed")
	}
	log.Info("connected to postgres")

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "initialize schema")
	}
	log.Info("schema initialized")

	return db, nil
}

// initSchema creates the snapshot tables if they are missing.
func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	// -------------------------------
	// CURRENT SNAPSHOT
	// -------------------------------
	snapshotsSQL := `
		CREATE TABLE IF NOT EXISTS restaurant_snapshots (
			id VARCHAR(50) PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, snapshotsSQL); err != nil {
		return err
	}

	// -------------------------------
	// DATED BACKUPS
	// -------------------------------
	backupsSQL := `
		CREATE TABLE IF NOT EXISTS restaurant_snapshot_backups (
			day DATE PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, backupsSQL); err != nil {
		return err
	}

	return nil
}
