package db

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func ConnectRedis(ctx context.Context, addr, password string, database int, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrapf(err, "redis connection to %s failed", addr)
	}

	log.Info("connected to redis", zap.String("addr", addr))
	return client, nil
}
