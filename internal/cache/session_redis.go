package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"MyPetCare/internal/model"
	pkgerrors "MyPetCare/pkg/errors"
	"MyPetCare/storage/redis"
)

// RedisSessionStore 多实例部署时共享会话，依赖 key 的 TTL 自动清理。
type RedisSessionStore struct {
	client  goredis.Cmdable
	ttl     time.Duration
	breaker *CircuitBreaker
}

// NewRedisSessionStore breaker 为 nil 时不做熔断
func NewRedisSessionStore(client goredis.Cmdable, ttl time.Duration, breaker *CircuitBreaker) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, breaker: breaker}
}

func sessionKey(id string) string {
	return redis.Key(sessionPrefix, id)
}

// isRedisFailure goredis.Nil 只是未命中，请求取消也不算 redis 故障
func isRedisFailure(err error) bool {
	return !errors.Is(err, goredis.Nil) && !errors.Is(err, context.Canceled)
}

// callRedis 经熔断器执行 redis 操作，连接类故障包装为 StorageUnavailable
func callRedis(breaker *CircuitBreaker, operation func() error) error {
	var err error
	if breaker == nil {
		err = operation()
	} else {
		err = breaker.Call(operation, isRedisFailure)
	}

	if err == nil || !isRedisFailure(err) || errors.Is(err, pkgerrors.StorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", pkgerrors.StorageUnavailable, err)
}

func (s *RedisSessionStore) call(operation func() error) error {
	return callRedis(s.breaker, operation)
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.OnboardingSession, error) {
	var data []byte
	err := s.call(func() error {
		var err error
		data, err = s.client.Get(ctx, sessionKey(id)).Bytes()
		return err
	})
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to load onboarding session: %w", err)
	}
	return decodeSession(data)
}

func (s *RedisSessionStore) Save(ctx context.Context, session *model.OnboardingSession) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	err = s.call(func() error {
		return s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save onboarding session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	err := s.call(func() error {
		return s.client.Del(ctx, sessionKey(id)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete onboarding session: %w", err)
	}
	return nil
}
