package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "inventaris:lock:"

// снимаем блокировку только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// продлеваем TTL, пока блокировка наша
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis: распределённая блокировка для нескольких реплик сервера.
// SET NX PX с уникальным токеном владельца; ожидание: опрос с интервалом retry.
// Пока блокировка удерживается, TTL продлевается каждые ttl/3.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *zap.SugaredLogger
}

// NewRedis создаёт Locker поверх клиента Redis.
// ttl ограничивает время жизни блокировки, если процесс упал, не отпустив её.
func NewRedis(rdb *redis.Client, ttl, retry time.Duration, logger *zap.SugaredLogger) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retry <= 0 {
		retry = 20 * time.Millisecond
	}
	return &Redis{rdb: rdb, ttl: ttl, retry: retry, logger: logger}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := redisKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := r.rdb.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
		if ok {
			break
		}
		t := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	done := make(chan struct{})
	go r.keepAlive(k, token, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			// отпускаем даже если контекст запроса уже отменён
			rctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, r.rdb, []string{k}, token).Err(); err != nil {
				r.logger.Warnw("lock: release failed", "key", key, "error", err)
			}
		})
	}, nil
}

// keepAlive продлевает блокировку до закрытия done или до потери владения.
func (r *Redis) keepAlive(key, token string, done <-chan struct{}) {
	every := r.ttl / 3
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), every)
		n, err := renewScript.Run(ctx, r.rdb, []string{key}, token, r.ttl.Milliseconds()).Int()
		cancel()
		switch {
		case err != nil:
			r.logger.Warnw("lock: renew failed", "key", key, "error", err)
		case n == 0:
			r.logger.Errorw("lock: ownership lost before release", "key", key)
			return
		}
	}
}
