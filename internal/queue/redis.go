package queue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/logging"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/metrics"
)

const (
	DefaultQueueKey    = "analyze_replays"
	retrySuffix        = ":retry"
	dlqSuffix          = ":dlq"
	retryCounterSuffix = ":retry-count:"
	maxRetryAttempts   = 3
	retryCounterTTL    = 24 * time.Hour
	brPopBlock         = 5 * time.Second
)

// Lists is the subset of the Redis client the queue needs. *redis.Client
// satisfies it.
type Lists interface {
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload []byte) error

// RedisQueue implements a job queue on Redis lists: jobs are LPUSHed and
// BRPOPed, failed jobs go to a retry list and, after maxRetryAttempts, to a
// dead letter list.
type RedisQueue struct {
	client   Lists
	key      string
	retryKey string
	dlqKey   string
}

// NewRedisQueue builds a Redis-backed queue on key, or DefaultQueueKey when empty.
func NewRedisQueue(client Lists, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{
		client:   client,
		key:      key,
		retryKey: key + retrySuffix,
		dlqKey:   key + dlqSuffix,
	}
}

// Key returns the main queue key.
func (q *RedisQueue) Key() string {
	return q.key
}

// Enqueue pushes a job onto the main queue.
func (q *RedisQueue) Enqueue(ctx context.Context, payload []byte) error {
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue on %s: %w", q.key, err)
	}
	return nil
}

// Consume delivers jobs to handler until ctx is canceled. With workers > 1
// jobs are fanned out to a pool of that many goroutines through a channel of
// bufferSize; otherwise they are handled inline. Retries are popped before
// new jobs.
func (q *RedisQueue) Consume(ctx context.Context, workers, bufferSize int, handler Handler) error {
	logger := logging.Logger().With("queue", q.key)

	if workers <= 1 {
		logger.Infof("starting single-threaded consumption")
		return q.pop(ctx, func(payload []byte) bool {
			q.deliver(ctx, logger, payload, handler)
			return true
		})
	}

	jobs := make(chan []byte, bufferSize)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			wlog := logger.With("worker", workerID)
			for payload := range jobs {
				q.deliver(ctx, wlog, payload, handler)
			}
			wlog.Debugf("worker exiting")
		}(i)
	}

	logger.Infof("started %d concurrent workers", workers)

	err := q.pop(ctx, func(payload []byte) bool {
		select {
		case jobs <- payload:
			return true
		case <-ctx.Done():
			return false
		}
	})
	close(jobs)
	wg.Wait()
	return err
}

// pop runs the BRPOP loop, passing each payload to submit until submit
// returns false or ctx ends.
func (q *RedisQueue) pop(ctx context.Context, submit func([]byte) bool) error {
	logger := logging.Logger()

	for {
		if ctx.Err() != nil {
			logger.Warnf("redis consumer exiting: %v", ctx.Err())
			return ctx.Err()
		}

		result, err := q.client.BRPop(ctx, brPopBlock, q.retryKey, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				logger.Warnf("redis BRPOP canceled: %v", ctx.Err())
				return ctx.Err()
			}
			logger.Warnf("redis BRPOP error: %v", err)
			continue
		}
		if len(result) < 2 {
			continue
		}

		if !submit([]byte(result[1])) {
			return ctx.Err()
		}
	}
}

func (q *RedisQueue) deliver(ctx context.Context, logger logging.Interface, payload []byte, handler Handler) {
	if err := handler(ctx, payload); err != nil {
		logger.Warnf("handler error, scheduling retry: %v", err)
		if err := q.handleRetry(ctx, payload); err != nil {
			logger.Errorf("retry handling failed: %v", err)
		}
		return
	}
	_ = q.clearRetryCounter(ctx, payload)
}

func (q *RedisQueue) handleRetry(ctx context.Context, payload []byte) error {
	attempt, err := q.incrementRetryCounter(ctx, payload)
	if err != nil {
		return err
	}
	if attempt > maxRetryAttempts {
		logging.Logger().Warnf("moving job to DLQ after %d attempts", attempt-1)
		metrics.QueueRetries.WithLabelValues("dlq").Inc()
		if err := q.client.LPush(ctx, q.dlqKey, payload).Err(); err != nil {
			return fmt.Errorf("push to dlq: %w", err)
		}
		return q.clearRetryCounter(ctx, payload)
	}
	metrics.QueueRetries.WithLabelValues("retry").Inc()
	return q.client.LPush(ctx, q.retryKey, payload).Err()
}

func (q *RedisQueue) incrementRetryCounter(ctx context.Context, payload []byte) (int64, error) {
	key := retryCounterKey(q.key, payload)
	count, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = q.client.Expire(ctx, key, retryCounterTTL).Err()
	return count, nil
}

func (q *RedisQueue) clearRetryCounter(ctx context.Context, payload []byte) error {
	return q.client.Del(ctx, retryCounterKey(q.key, payload)).Err()
}

func retryCounterKey(queue string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s%s%s", queue, retryCounterSuffix, hex.EncodeToString(sum[:]))
}
