package restaurant

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const (
	snapshotKey     = "restaurants:snapshot"
	backupKeyPrefix = "restaurants:backup:"
)

// redisClient is the subset of *redis.Client the repository uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisRepository stores the snapshot under a single key. Backups live
// under restaurants:backup:YYYY-MM-DD and expire after backupTTL (0 keeps them).
type RedisRepository struct {
	client    redisClient
	backupTTL time.Duration
}

func NewRedisRepository(client redisClient, backupTTL time.Duration) *RedisRepository {
	return &RedisRepository{client: client, backupTTL: backupTTL}
}

func (r *RedisRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "load snapshot from redis")
	}
	return data, nil
}

func (r *RedisRepository) Save(ctx context.Context, snapshot []byte) error {
	err := r.client.Set(ctx, snapshotKey, snapshot, 0).Err()
	return eris.Wrap(err, "save snapshot to redis")
}

func (r *RedisRepository) Backup(ctx context.Context, day string, snapshot []byte) error {
	err := r.client.Set(ctx, backupKeyPrefix+day, snapshot, r.backupTTL).Err()
	return eris.Wrap(err, "save snapshot backup to redis")
}
