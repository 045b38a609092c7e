package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/adapters/sink/console"
	redissink "github.com/Halone228/funpay-api/internal/adapters/sink/redis"
	websocketsink "github.com/Halone228/funpay-api/internal/adapters/sink/websocket"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

const shutdownTimeout = 5 * time.Second

// fanout publishes every event to all sinks; one failing sink does not stop
// the others.
type fanout []ports.EventSink

var _ ports.EventSink = fanout(nil)

func (f fanout) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) Close() error {
	var errs []error
	for _, sink := range f {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// servedHub is a websocket hub together with the HTTP server exposing it.
type servedHub struct {
	*websocketsink.Hub
	server *http.Server
}

func (h servedHub) Close() error {
	hubErr := h.Hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(hubErr, h.server.Shutdown(ctx))
}

func (a *app) openSinks(ctx context.Context, out io.Writer, names []string) (fanout, error) {
	var sinks fanout
	for _, name := range names {
		sink, err := a.openSink(ctx, out, name)
		if err != nil {
			return nil, errors.Join(err, sinks.Close())
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

func (a *app) openSink(ctx context.Context, out io.Writer, name string) (ports.EventSink, error) {
	logger := a.logger.Named("sink")

	switch name {
	case string(console.FormatText), string(console.FormatJSON):
		return console.New(out, console.Format(name))
	case "redis":
		return redissink.Dial(ctx, a.settings.Sink.RedisAddr, a.settings.Sink.RedisChannel, logger)
	case "websocket":
		listener, err := net.Listen("tcp", a.settings.Sink.WebsocketListen)
		if err != nil {
			return nil, fmt.Errorf("listen for websocket clients: %w", err)
		}

		hub := websocketsink.NewHub(logger)
		server := &http.Server{Handler: hub.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("websocket server stopped", zap.Error(err))
			}
		}()

		logger.Info("serving events", zap.String("url", "ws://"+listener.Addr().String()+websocketsink.EventsPath))
		return servedHub{Hub: hub, server: server}, nil
	default:
		return nil, fmt.Errorf("unsupported sink %q (want text, json, redis or websocket)", name)
	}
}
