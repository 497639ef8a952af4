package conn

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/errors"
)

const (
	defaultRedisAddr    = "localhost:6379"
	defaultRedisTimeout = 3 * time.Second
)

// RedisOption defines connection options for Redis.
type RedisOption struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the connectivity check done by NewRedis.
	PingTimeout time.Duration
}

func (opt RedisOption) options() *redis.Options {
	addr := opt.Addr
	if addr == "" {
		addr = defaultRedisAddr
	}
	return &redis.Options{
		Addr:     addr,
		Password: opt.Password,
		DB:       opt.DB,
	}
}

// NewRedis creates a Redis client and pings it once.
func NewRedis(ctx context.Context, option RedisOption) (*redis.Client, error) {
	client := redis.NewClient(option.options())

	timeout := option.PingTimeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis %s", client.Options().Addr)
	}
	return client, nil
}
