// Package circuitbreaker guards the generation provider chain: a provider
// that keeps failing is skipped until its cooldown elapses, then probed in
// half-open state. State lives in Redis when available so replicas share
// one view; otherwise it is process-local.
package circuitbreaker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "HalfOpen"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

type Config struct {
	FailureThreshold int
	SuccessThreshold int
	Cooldown         time.Duration
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 3,
		Cooldown:         30 * time.Second,
	}
}

// Breaker is the contract the generator fallback chain depends on.
type Breaker interface {
	CanExecute() bool
	RecordSuccess()
	RecordFailure()
	GetState() State
}

// New returns a Redis-coordinated breaker when a client is provided, a
// process-local one otherwise.
func New(redisClient *redis.Client, providerName string, config Config) Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = DefaultConfig().SuccessThreshold
	}
	if config.Cooldown <= 0 {
		config.Cooldown = DefaultConfig().Cooldown
	}

	if redisClient == nil {
		fiberlog.Debugf("CircuitBreaker: no redis configured, using in-memory breaker for %s", providerName)
		return newMemoryBreaker(providerName, config)
	}
	return newRedisBreaker(redisClient, providerName, config)
}

const (
	circuitBreakerKeyPrefix = "circuit_breaker:"
	stateKey                = "state"
	failureCountKey         = "failure_count"
	successCountKey         = "success_count"
	lastFailureTimeKey      = "last_failure_time"
	lastStateChangeKey      = "last_state_change"
	redisOpTimeout          = 1 * time.Second
)

// Lua scripts keep count/state updates atomic across replicas.
const (
	// KEYS: state, failure_count, success_count, last_state_change
	// ARGV: success threshold, current unix time
	recordSuccessScript = `
		local state = tonumber(redis.call('GET', KEYS[1]) or '0')
		redis.call('SET', KEYS[2], 0)

		if state == 2 then
			local count = redis.call('INCR', KEYS[3])
			if count >= tonumber(ARGV[1]) then
				redis.call('SET', KEYS[1], 0)
				redis.call('SET', KEYS[3], 0)
				redis.call('SET', KEYS[4], ARGV[2])
				return 2
			end
			return 1
		end
		return 0
	`

	// KEYS: state, failure_count, last_failure_time, last_state_change, success_count
	// ARGV: failure threshold, current unix time
	recordFailureScript = `
		local state = tonumber(redis.call('GET', KEYS[1]) or '0')
		local failureCount = redis.call('INCR', KEYS[2])
		redis.call('SET', KEYS[3], ARGV[2])

		local shouldOpen = (state == 0 and failureCount >= tonumber(ARGV[1])) or state == 2

		if shouldOpen then
			redis.call('SET', KEYS[1], 1)
			redis.call('SET', KEYS[4], ARGV[2])
			redis.call('SET', KEYS[5], '0')
			return 1
		end
		return 0
	`
)

type redisBreaker struct {
	client       *redis.Client
	providerName string
	config       Config
	keyPrefix    string
}

func newRedisBreaker(client *redis.Client, providerName string, config Config) *redisBreaker {
	cb := &redisBreaker{
		client:       client,
		providerName: providerName,
		config:       config,
		keyPrefix:    circuitBreakerKeyPrefix + providerName + ":",
	}
	cb.initializeState()
	return cb
}

func (cb *redisBreaker) key(suffix string) string {
	return cb.keyPrefix + suffix
}

func (cb *redisBreaker) initializeState() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	exists, err := cb.client.Exists(ctx, cb.key(stateKey)).Result()
	if err != nil {
		fiberlog.Errorf("CircuitBreaker: failed to check state existence for %s: %v", cb.providerName, err)
		return
	}

	if exists == 0 {
		pipe := cb.client.Pipeline()
		pipe.Set(ctx, cb.key(stateKey), int(Closed), 0)
		pipe.Set(ctx, cb.key(failureCountKey), 0, 0)
		pipe.Set(ctx, cb.key(successCountKey), 0, 0)
		pipe.Set(ctx, cb.key(lastStateChangeKey), time.Now().Unix(), 0)

		if _, err := pipe.Exec(ctx); err != nil {
			fiberlog.Errorf("CircuitBreaker: failed to initialize state for %s: %v", cb.providerName, err)
		}
	}
}

func (cb *redisBreaker) CanExecute() bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	state, err := cb.getState(ctx)
	if err != nil {
		fiberlog.Errorf("CircuitBreaker: failed to get state for %s, allowing execution: %v", cb.providerName, err)
		return true
	}

	switch state {
	case Closed, HalfOpen:
		return true
	case Open:
		lastFailureTime, err := cb.client.Get(ctx, cb.key(lastFailureTimeKey)).Int64()
		if err != nil {
			fiberlog.Errorf("CircuitBreaker: failed to get last failure time for %s: %v", cb.providerName, err)
			return false
		}
		if time.Since(time.Unix(lastFailureTime, 0)) > cb.config.Cooldown {
			return cb.transitionTo(HalfOpen)
		}
		return false
	default:
		return false
	}
}

func (cb *redisBreaker) RecordSuccess() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	keys := []string{
		cb.key(stateKey),
		cb.key(failureCountKey),
		cb.key(successCountKey),
		cb.key(lastStateChangeKey),
	}
	args := []any{cb.config.SuccessThreshold, time.Now().Unix()}

	result, err := cb.client.Eval(ctx, recordSuccessScript, keys, args...).Int()
	if err != nil {
		fiberlog.Errorf("CircuitBreaker: failed to record success for %s: %v", cb.providerName, err)
		return
	}

	if result == 2 {
		fiberlog.Infof("CircuitBreaker: %s transitioned to Closed after recovery", cb.providerName)
	}
}

func (cb *redisBreaker) RecordFailure() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	keys := []string{
		cb.key(stateKey),
		cb.key(failureCountKey),
		cb.key(lastFailureTimeKey),
		cb.key(lastStateChangeKey),
		cb.key(successCountKey),
	}
	args := []any{cb.config.FailureThreshold, time.Now().Unix()}

	result, err := cb.client.Eval(ctx, recordFailureScript, keys, args...).Int()
	if err != nil {
		fiberlog.Errorf("CircuitBreaker: failed to record failure for %s: %v", cb.providerName, err)
		return
	}

	if result == 1 {
		fiberlog.Warnf("CircuitBreaker: %s transitioned to Open after failures", cb.providerName)
	}
}

func (cb *redisBreaker) GetState() State {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	state, err := cb.getState(ctx)
	if err != nil {
		fiberlog.Errorf("CircuitBreaker: failed to get state for %s, returning Closed: %v", cb.providerName, err)
		return Closed
	}
	return state
}

func (cb *redisBreaker) getState(ctx context.Context) (State, error) {
	stateStr, err := cb.client.Get(ctx, cb.key(stateKey)).Result()
	if err != nil {
		return Closed, fmt.Errorf("failed to get circuit breaker state: %w", err)
	}

	stateInt, err := strconv.Atoi(stateStr)
	if err != nil {
		return Closed, fmt.Errorf("invalid state value '%s': %w", stateStr, err)
	}
	return State(stateInt), nil
}

func (cb *redisBreaker) transitionTo(newState State) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := cb.client.Watch(ctx, func(tx *redis.Tx) error {
		currentState, err := cb.getState(ctx)
		if err != nil {
			return err
		}
		if currentState == newState {
			return nil
		}

		pipe := tx.TxPipeline()
		pipe.Set(ctx, cb.key(stateKey), int(newState), 0)
		pipe.Set(ctx, cb.key(lastStateChangeKey), time.Now().Unix(), 0)
		if newState != HalfOpen {
			pipe.Set(ctx, cb.key(successCountKey), 0, 0)
		}
		_, err = pipe.Exec(ctx)
		return err
	}, cb.key(stateKey))
	if err != nil {
		fiberlog.Errorf("CircuitBreaker: %s state transition failed: %v", cb.providerName, err)
		return false
	}

	fiberlog.Debugf("CircuitBreaker: %s transitioned to %s", cb.providerName, newState)
	return true
}

// memoryBreaker mirrors the redis breaker semantics for single-process
// deployments.
type memoryBreaker struct {
	mu           sync.Mutex
	providerName string
	config       Config
	state        State
	failureCount int
	successCount int
	lastFailure  time.Time
}

func newMemoryBreaker(providerName string, config Config) *memoryBreaker {
	return &memoryBreaker{providerName: providerName, config: config, state: Closed}
}

func (cb *memoryBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case Closed, HalfOpen:
		return true
	case Open:
		if time.Since(cb.lastFailure) > cb.config.Cooldown {
			cb.state = HalfOpen
			cb.successCount = 0
			fiberlog.Debugf("CircuitBreaker: %s transitioned to HalfOpen", cb.providerName)
			return true
		}
		return false
	default:
		return false
	}
}

func (cb *memoryBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	if cb.state == HalfOpen {
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = Closed
			cb.successCount = 0
			fiberlog.Infof("CircuitBreaker: %s transitioned to Closed after recovery", cb.providerName)
		}
	}
}

func (cb *memoryBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailure = time.Now()

	if (cb.state == Closed && cb.failureCount >= cb.config.FailureThreshold) || cb.state == HalfOpen {
		cb.state = Open
		cb.successCount = 0
		fiberlog.Warnf("CircuitBreaker: %s transitioned to Open after failures", cb.providerName)
	}
}

func (cb *memoryBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
