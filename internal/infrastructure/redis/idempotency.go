// Package redis guarda las claves de RequestID en Redis para que la guardia de idempotencia
// funcione entre varias réplicas de la API.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

const idempotencyKeyPrefix = "stock-ledger:request:"

var _ ledger.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore reserva RequestID con SET NX y TTL.
type IdempotencyStore struct {
	client goredis.UniversalClient
}

// NewIdempotencyStore envuelve un cliente ya conectado.
func NewIdempotencyStore(client goredis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 50,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Reserve devuelve true si la clave no existía y quedó reservada durante ttl.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, requestKey(key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release libera la clave para que un reintento pueda aplicarse.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, requestKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func requestKey(key string) string { return idempotencyKeyPrefix + key }
