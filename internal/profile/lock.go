package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/utils"
)

// Locker 把画像重算串行化，同一评价者同一时刻只允许一次重算
type Locker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

// RedisLocker 用 redis SET NX 实现跨实例的互斥锁
type RedisLocker struct {
	client     *redis.Client
	expiration time.Duration
}

func NewRedisLocker(client *redis.Client, expiration time.Duration) *RedisLocker {
	return &RedisLocker{
		client:     client,
		expiration: expiration,
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	token := utils.GenerateRandomID(8, 8)

	deadline := time.Now().Add(l.expiration)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.expiration).Result()
		if err != nil {
			return fmt.Errorf("获取画像重算锁失败: %w", domain.ErrTransientStore)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("画像重算锁等待超时: %w", domain.ErrTransientStore)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	defer func() {
		// 只释放自己持有的锁
		current, err := l.client.Get(ctx, key).Result()
		if err == nil && current == token {
			_ = l.client.Del(ctx, key).Err()
		}
	}()

	return fn()
}

// NoopLocker 在单实例部署或测试中使用，不做任何互斥
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	return fn()
}
