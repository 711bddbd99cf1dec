package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "MyPetCare/pkg/errors"
	"MyPetCare/storage/redis"
)

// 会话锁，串行化同一会话的 读取-修改-写回
const (
	lockPrefix        = "onboarding:lock"
	lockRetryInterval = 20 * time.Millisecond
)

// SessionLocker 获取单个会话的独占锁，返回的 unlock 必须调用。
// 在 wait 内拿不到锁时返回 OnboardingSessionBusy。
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

// LocalSessionLocker 进程内按会话加锁，配合 MemorySessionStore 使用。
type LocalSessionLocker struct {
	wait time.Duration

	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalSessionLocker(wait time.Duration) *LocalSessionLocker {
	return &LocalSessionLocker{
		wait:  wait,
		locks: make(map[string]*localLock),
	}
}

func (l *LocalSessionLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[sessionID]
	if !ok {
		lk = &localLock{ch: make(chan struct{}, 1)}
		l.locks[sessionID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case lk.ch <- struct{}{}:
		return func() {
			<-lk.ch
			l.release(sessionID, lk)
		}, nil
	case <-timer.C:
		l.release(sessionID, lk)
		return nil, busy(sessionID)
	case <-ctx.Done():
		l.release(sessionID, lk)
		return nil, ctx.Err()
	}
}

func (l *LocalSessionLocker) release(sessionID string, lk *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, sessionID)
	}
}

// Len 当前持有或等待中的会话锁数量
func (l *LocalSessionLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// unlockScript 只删除 token 匹配的锁
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionLocker 通过 SetNX 实现的分布式锁，多实例共享 redis 会话时使用。
type RedisSessionLocker struct {
	client  redisLockClient
	ttl     time.Duration
	wait    time.Duration
	breaker *CircuitBreaker
}

// redisLockClient SetNX 与脚本执行都需要
type redisLockClient interface {
	goredis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
}

// NewRedisSessionLocker ttl 是锁的最长持有时间，防止实例崩溃后死锁。
// breaker 与会话存储共用，redis 故障时加锁同样计入熔断。
func NewRedisSessionLocker(client redisLockClient, ttl, wait time.Duration, breaker *CircuitBreaker) *RedisSessionLocker {
	return &RedisSessionLocker{client: client, ttl: ttl, wait: wait, breaker: breaker}
}

func lockKey(sessionID string) string {
	return redis.Key(lockPrefix, sessionID)
}

func (l *RedisSessionLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockKey(sessionID)
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	for {
		var ok bool
		err := callRedis(l.breaker, func() error {
			var err error
			ok, err = l.client.SetNX(ctx, key, token, l.ttl).Result()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return func() {
				// 请求 context 可能已取消
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, busy(sessionID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func busy(sessionID string) error {
	return fmt.Errorf("%w: %s", pkgerrors.OnboardingSessionBusy, sessionID)
}
