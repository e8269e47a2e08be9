package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher broadcasts events on a per-tournament pub/sub channel so
// other instances can relay them to their own websocket clients.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// OpenRedis parses rawURL and pings the server.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Channel(tournamentID string) string {
	return p.prefix + tournamentID
}

func (p *RedisPublisher) Publish(ctx context.Context, event models.TournamentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, p.Channel(event.TournamentID), data).Err(); err != nil {
		return fmt.Errorf("publish event %s to redis: %w", event.Type, err)
	}
	return nil
}
