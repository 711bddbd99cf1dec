package cache

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	pkgerrors "MyPetCare/pkg/errors"
	"MyPetCare/pkg/logger"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 关闭状态：正常工作
	StateOpen                  // 开启状态：熔断中
	StateHalfOpen              // 半开状态：尝试恢复
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker 保护外部会话存储，连续失败后快速失败，避免请求堆积在超时上。
type CircuitBreaker struct {
	name             string
	maxFailures      int           // 最大失败次数
	resetTimeout     time.Duration // 熔断后多久进入半开
	halfOpenMaxCalls int           // 半开状态最大并发试探次数

	now func() time.Time

	mu            sync.Mutex
	state         State
	failures      int
	lastFailTime  time.Time
	halfOpenCalls int
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		name:             name,
		maxFailures:      maxFailures,
		resetTimeout:     resetTimeout,
		halfOpenMaxCalls: 3,
		now:              time.Now,
		state:            StateClosed,
	}
}

// Call 执行带熔断保护的操作。
// 只有 isFailure 判定为真的错误才计入失败，业务错误（如会话不存在）不影响熔断状态。
func (cb *CircuitBreaker) Call(operation func() error, isFailure func(error) bool) error {
	if !cb.allowRequest() {
		return fmt.Errorf("%w: circuit breaker %q is open", pkgerrors.StorageUnavailable, cb.name)
	}

	err := operation()
	cb.recordResult(err != nil && isFailure(err))
	return err
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailTime) < cb.resetTimeout {
			return false
		}
		cb.transitionTo(StateHalfOpen)
		cb.halfOpenCalls++
		return true
	case StateHalfOpen:
		if cb.halfOpenCalls >= cb.halfOpenMaxCalls {
			return false
		}
		cb.halfOpenCalls++
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !failed {
		if cb.state == StateHalfOpen {
			cb.transitionTo(StateClosed)
		}
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailTime = cb.now()

	logger.Logger.Warn("Session store operation failed",
		zap.String("breaker", cb.name),
		zap.Int("failures", cb.failures),
		zap.String("state", cb.state.String()),
	)

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.maxFailures {
			cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.transitionTo(StateOpen)
	}
}

// transitionTo 调用方需持有锁
func (cb *CircuitBreaker) transitionTo(state State) {
	cb.state = state
	cb.halfOpenCalls = 0
	if state == StateClosed {
		cb.failures = 0
	}

	logger.Logger.Info("Circuit breaker state changed",
		zap.String("breaker", cb.name),
		zap.String("state", state.String()),
		zap.Int("failures", cb.failures),
	)
}

// GetState 获取当前状态
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
