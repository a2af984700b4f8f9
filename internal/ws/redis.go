package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/logging"
	"github.com/playmatatu/cueassist/internal/physics"
)

const (
	TrajectoryChannel = "trajectory_events"
	LatestKey         = "trajectory:latest"
)

// RedisRelay publishes rendered trajectories so every server instance can push them
// to its own viewers, and keeps the latest one under LatestKey.
type RedisRelay struct {
	rdb       *redis.Client
	log       zerolog.Logger
	LatestTTL time.Duration
}

func NewRedisRelay(rdb *redis.Client, log zerolog.Logger) *RedisRelay {
	return &RedisRelay{
		rdb:       rdb,
		log:       logging.Component(log, "ws-relay"),
		LatestTTL: 10 * time.Minute,
	}
}

// Render publishes t on TrajectoryChannel.
func (r *RedisRelay) Render(ctx context.Context, t physics.Trajectory) error {
	payload, err := json.Marshal(Message{Type: "trajectory", Data: t})
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, LatestKey, payload, r.LatestTTL)
	pipe.Publish(ctx, TrajectoryChannel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Latest returns the last published message, or redis.Nil when none is stored.
func (r *RedisRelay) Latest(ctx context.Context) ([]byte, error) {
	return r.rdb.Get(ctx, LatestKey).Bytes()
}

// Subscribe relays published trajectories to hub until ctx is done.
func (r *RedisRelay) Subscribe(ctx context.Context, hub *Hub) {
	pubsub := r.rdb.Subscribe(ctx, TrajectoryChannel)
	go func() {
		defer pubsub.Close()
		r.log.Info().Str("channel", TrajectoryChannel).Msg("subscriber started")

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var probe Message
				if err := json.Unmarshal([]byte(msg.Payload), &probe); err != nil {
					r.log.Warn().Err(err).Msg("invalid event payload")
					continue
				}
				hub.BroadcastRaw([]byte(msg.Payload))
			}
		}
	}()
}
