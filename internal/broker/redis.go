package broker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis bridges the in-process broker over a redis pub/sub channel so
// several gateway processes can share one fan-out space. Local delivery
// always goes through redis, keeping single- and multi-process behavior
// identical.
type Redis struct {
	client *redis.Client
	local  *Memory
	pubsub *redis.PubSub
}

func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Redis{
		client: client,
		local:  NewMemory(),
		pubsub: client.Subscribe(ctx),
	}, nil
}

func (r *Redis) Subscribe(group string, sub Subscriber) {
	r.local.Subscribe(group, sub)
	_ = r.pubsub.Subscribe(context.Background(), group)
}

func (r *Redis) Unsubscribe(group string, sub Subscriber) {
	r.local.Unsubscribe(group, sub)
	if r.local.GroupSize(group) == 0 {
		_ = r.pubsub.Unsubscribe(context.Background(), group)
	}
}

func (r *Redis) Publish(ctx context.Context, group string, payload []byte) error {
	if err := r.client.Publish(ctx, group, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Run pumps remote messages into the local broker until ctx is done.
func (r *Redis) Run(ctx context.Context) error {
	ch := r.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			_ = r.local.Publish(ctx, msg.Channel, []byte(msg.Payload))
		}
	}
}

func (r *Redis) Close() {
	_ = r.pubsub.Close()
	_ = r.client.Close()
}
