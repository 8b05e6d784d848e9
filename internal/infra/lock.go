package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrLockOcupado is returned when the key stays held past the wait budget.
var ErrLockOcupado = errors.New("lock ocupado")

// Only the holder's token may delete the key.
var liberarScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a single-instance SET NX PX lock. It satisfies service.Locker.
type RedisLocker struct {
	rdb       *redis.Client
	espera    time.Duration
	intervalo time.Duration
}

// NewRedisLocker waits up to espera for a held key before giving up.
func NewRedisLocker(rdb *redis.Client, espera time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, espera: espera, intervalo: 50 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	limite := time.Now().Add(l.espera)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(limite) {
			return nil, ErrLockOcupado
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.intervalo):
		}
	}

	release := func() {
		// The request context may already be cancelled; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := liberarScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("lock: no se pudo liberar")
		}
	}
	return release, nil
}
