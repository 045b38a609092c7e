package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

type publishCall struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *goredis.IntCmd {
	f.calls = append(f.calls, publishCall{channel: channel, payload: message.([]byte)})
	return goredis.NewIntResult(1, f.err)
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestSinkPublishesEnvelope(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	sink := New(publisher, "", nil)

	event := domain.DomainUnavailableEvent{
		EventMeta: domain.NewEventMeta(8, time.Now()),
		Domain:    domain.DomainOrders,
		Err:       errors.New("502 bad gateway"),
	}
	require.NoError(t, sink.Publish(context.Background(), event))
	require.NoError(t, sink.Close())

	require.Len(t, publisher.calls, 1)
	assert.Equal(t, DefaultChannel, publisher.calls[0].channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(publisher.calls[0].payload, &decoded))
	assert.Equal(t, "domain_unavailable", decoded["kind"])
	assert.Equal(t, "orders", decoded["domain"])
	assert.True(t, publisher.closed)
}

func TestSinkWrapsPublishError(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{err: errors.New("connection refused")}
	sink := New(publisher, "shop:events", nil)

	err := sink.Publish(context.Background(), domain.NewOrderEvent{EventMeta: domain.NewEventMeta(1, time.Now())})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop:events")
	assert.Contains(t, err.Error(), "connection refused")
}
