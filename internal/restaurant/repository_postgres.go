package restaurant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

const currentSnapshotID = "current"

// PostgresRepository stores the snapshot as JSONB in restaurant_snapshots,
// with dated copies in restaurant_snapshot_backups.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `
		SELECT data
		FROM restaurant_snapshots
		WHERE id = $1
	`, currentSnapshotID).Scan(&data)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "load snapshot")
	}
	return data, nil
}

func (r *PostgresRepository) Save(ctx context.Context, snapshot []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO restaurant_snapshots (id, data, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data,
		    updated_at = now()
	`, currentSnapshotID, string(snapshot))

	return eris.Wrap(err, "save snapshot")
}

func (r *PostgresRepository) Backup(ctx context.Context, day string, snapshot []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO restaurant_snapshot_backups (day, data, updated_at)
		VALUES ($1::date, $2::jsonb, now())
		ON CONFLICT (day) DO UPDATE
		SET data = EXCLUDED.data,
		    updated_at = now()
	`, day, string(snapshot))

	return eris.Wrap(err, "save snapshot backup")
}
