// Package redis stores thoughts in Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/leopalladium/thoughtboard/api"
	"github.com/redis/go-redis/v9"
)

// Redis provides storage in Redis.
type Redis struct {
	cli *redis.Client
}

// Connect connects to the Redis server and pings the server to ensure the
// connection is working.
func Connect(ctx context.Context, opts *redis.Options) (*Redis, error) {
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{
		cli: cli,
	}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.cli.Close()
}

const (
	// thoughtPrefix names the sorted set of thought keys and prefixes every
	// thought hash.
	thoughtPrefix = "thoughts"
	nextIDKey     = "thoughts:next_id"
)

// thoughtKey zero-pads the id so that members with equal scores, which
// Redis orders lexicographically, come back in id order.
func thoughtKey(id int64) string {
	return fmt.Sprintf("%s:%020d", thoughtPrefix, id)
}

// ListThoughts returns thoughts from Redis sorted by creation time in
// descending order, newest id first among equal times.
func (r *Redis) ListThoughts(ctx context.Context, limit int, offset int) ([]api.Thought, error) {
	if limit <= 0 {
		return []api.Thought{}, nil
	}
	keys, err := r.cli.ZRevRange(ctx, thoughtPrefix, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err = r.cli.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.HGetAll(ctx, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hgetall: %w", err)
	}

	out := make([]api.Thought, 0, len(keys))
	for _, cmd := range cmds {
		var t thought
		if err := cmd.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if t.ID == 0 {
			// The hash was removed after the range was read.
			continue
		}
		out = append(out, t.APIThought())
	}
	return out, nil
}

// InsertThought stores the thought as a hash under thoughts:ID and adds the
// key to the sorted set scored by creation time in microseconds. IDs come
// from a counter.
func (r *Redis) InsertThought(ctx context.Context, t api.Thought) (api.Thought, error) {
	id, err := r.cli.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return api.Thought{}, fmt.Errorf("incr: %w", err)
	}
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	m := thought{
		ID:        id,
		Content:   t.Content,
		CreatedAt: createdAt.UTC(),
	}

	key := thoughtKey(id)
	_, err = r.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, m)
		pipe.ZAdd(ctx, thoughtPrefix, redis.Z{
			Score:  float64(m.CreatedAt.UnixMicro()),
			Member: key,
		})
		return nil
	})
	if err != nil {
		return api.Thought{}, fmt.Errorf("redis insert thought: %w", err)
	}
	return m.APIThought(), nil
}
