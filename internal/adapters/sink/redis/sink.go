// Package redis publishes runner events to a Redis pub/sub channel.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/adapters/sink/envelope"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

const DefaultChannel = "funpay:events"

// Publisher is the subset of *goredis.Client the sink uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
	Close() error
}

var _ ports.EventSink = (*Sink)(nil)

type Sink struct {
	client  Publisher
	channel string
	logger  *zap.Logger
}

func New(client Publisher, channel string, logger *zap.Logger) *Sink {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{client: client, channel: channel, logger: logger}
}

// Dial connects to addr and verifies the server answers before returning.
func Dial(ctx context.Context, addr, channel string, logger *zap.Logger) (*Sink, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return New(client, channel, logger), nil
}

func (s *Sink) Publish(ctx context.Context, event domain.Event) error {
	payload, err := envelope.Marshal(event)
	if err != nil {
		return err
	}

	receivers, err := s.client.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s event to %s: %w", event.Kind(), s.channel, err)
	}
	if receivers == 0 {
		s.logger.Debug("event published without subscribers",
			zap.String("channel", s.channel),
			zap.Uint64("seq", event.Meta().Seq),
		)
	}
	return nil
}

func (s *Sink) Close() error {
	return s.client.Close()
}
