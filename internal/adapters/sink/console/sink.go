// Package console writes runner events to a terminal or pipe.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Halone228/funpay-api/internal/adapters/render/status"
	"github.com/Halone228/funpay-api/internal/adapters/sink/envelope"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var _ ports.EventSink = (*Sink)(nil)

type Sink struct {
	mu     sync.Mutex
	out    io.Writer
	format Format
}

func New(out io.Writer, format Format) (*Sink, error) {
	switch format {
	case FormatText, FormatJSON:
	case "":
		format = FormatText
	default:
		return nil, fmt.Errorf("unsupported console format %q", format)
	}
	return &Sink{out: out, format: format}, nil
}

func (s *Sink) Publish(_ context.Context, event domain.Event) error {
	line, err := s.line(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("write %s event: %w", event.Kind(), err)
	}
	return nil
}

func (s *Sink) line(event domain.Event) (string, error) {
	if s.format == FormatText {
		return status.RenderEvent(event), nil
	}
	data, err := envelope.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Sink) Close() error {
	return nil
}
