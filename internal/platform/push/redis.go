package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/rioporto/p2p/pkg/config"
)

// Notifier fans push events out to connected clients. Delivery is best-effort:
// a lost event is recovered by the client re-reading its notification feed.
type Notifier interface {
	Publish(ctx context.Context, channel, event string, payload any) error
	Close() error
}

// UserChannel is the private per-user channel convention.
func UserChannel(userID string) string {
	return "user:" + userID
}

// envelope is the wire shape published on a channel.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type RedisNotifier struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

func NewRedisNotifier(cfg *cfgpkg.Config, log *zap.SugaredLogger) (Notifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisNotifier{client: client, log: log}, nil
}

// newWithClient is used by tests to inject a mock connection.
func newWithClient(client *redis.Client, log *zap.SugaredLogger) *RedisNotifier {
	return &RedisNotifier{client: client, log: log}
}

func (n *RedisNotifier) Publish(ctx context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}
	data, err := json.Marshal(envelope{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal push envelope: %w", err)
	}
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

func registerClose(lc fx.Lifecycle, l *zap.SugaredLogger, n Notifier) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis notifier")
			return n.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewRedisNotifier),
	fx.Invoke(registerClose),
)
