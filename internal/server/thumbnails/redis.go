package thumbnails

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("thumbnails: cbor encoder: %v", err))
	}
}

// RedisQueue is a list-backed queue shared by every server instance:
// LPUSH on enqueue, BRPOP on dequeue. Jobs are CBOR encoded.
type RedisQueue struct {
	rdb  *redis.Client
	key  string
	poll time.Duration
}

func NewRedisQueue(rdb *redis.Client, name string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: "queue:" + name, poll: time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	b, err := encMode.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, b).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}

		res, err := q.rdb.BRPop(ctx, q.poll, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			return Job{}, fmt.Errorf("redis brpop: %w", err)
		}

		var job Job
		if err := cbor.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}

// Close is a no-op; the client is owned by the caller.
func (q *RedisQueue) Close() error {
	return nil
}
