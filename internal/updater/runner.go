// Package updater polls an account, diffs consecutive snapshots and turns the
// differences into an ordered stream of events.
package updater

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/account"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

const (
	DefaultPollInterval       = 6 * time.Second
	DefaultStalenessThreshold = 40 * time.Minute

	listenBuffer = 64
)

type State int

const (
	StateIdle State = iota
	StatePolling
	StateDiffing
	StateEmitting
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateDiffing:
		return "diffing"
	case StateEmitting:
		return "emitting"
	case StateSleeping:
		return "sleeping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	PollInterval       time.Duration
	StalenessThreshold time.Duration
	PageCap            int
	// EmitInitial announces every entity of the first successful snapshot.
	EmitInitial bool
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.StalenessThreshold <= 0 {
		c.StalenessThreshold = DefaultStalenessThreshold
	}
	if c.PageCap <= 0 {
		c.PageCap = DefaultPageCap
	}
	return c
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithClock(clock ports.Clock) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// Update is one item delivered by Listen: either an event or the error that
// stopped the runner.
type Update struct {
	Event domain.Event
	Err   error
}

// Runner drives one account. It can be consumed once, through Events or
// Listen; a new sequence needs a new Runner.
type Runner struct {
	facade  account.Facade
	builder *Builder
	cfg     Config
	clock   ports.Clock
	logger  *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	state    State
	consumed bool
	ignored  map[ignoreKey]struct{}

	// Owned by the consuming goroutine.
	seq          uint64
	chats        ChatSnapshot
	orders       OrderSnapshot
	chatsSeeded  bool
	ordersSeeded bool
}

func New(facade account.Facade, cfg Config, opts ...Option) *Runner {
	cfg = cfg.withDefaults()
	r := &Runner{
		facade:  facade,
		builder: NewBuilder(facade, cfg.PageCap),
		cfg:     cfg,
		clock:   ports.SystemClock{},
		logger:  zap.NewNop(),
		stop:    make(chan struct{}),
		ignored: map[ignoreKey]struct{}{},
		chats:   Unavailable[domain.ChatID, domain.ChatState](0),
		orders:  Unavailable[domain.OrderID, domain.OrderState](0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateStopped {
		return
	}
	r.state = state
}

// Stop asks the runner to finish at the next state boundary. Requests already
// in flight complete normally.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Runner) stopRequested(ctx context.Context) bool {
	select {
	case <-r.stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// advance moves to state unless a stop was requested, in which case the
// runner becomes Stopped and advance reports false.
func (r *Runner) advance(ctx context.Context, state State) bool {
	if r.stopRequested(ctx) {
		r.setState(StateStopped)
		return false
	}
	r.setState(state)
	return true
}

func (r *Runner) claim() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consumed {
		return domain.ErrAlreadyListening
	}
	r.consumed = true
	return nil
}

// Events returns the lazy event sequence. Iteration blocks through polling
// and sleeping; it ends when Stop is called, ctx is done, or a fatal error is
// yielded. Cancelling ctx never aborts a request mid-flight.
func (r *Runner) Events(ctx context.Context) iter.Seq2[domain.Event, error] {
	return func(yield func(domain.Event, error) bool) {
		if err := r.claim(); err != nil {
			yield(nil, err)
			return
		}
		r.run(ctx, yield)
	}
}

// Listen runs the runner on its own goroutine and delivers updates on the
// returned channel, which is closed when the runner stops.
func (r *Runner) Listen(ctx context.Context) (<-chan Update, error) {
	if err := r.claim(); err != nil {
		return nil, err
	}

	updates := make(chan Update, listenBuffer)
	go func() {
		defer close(updates)
		r.run(ctx, func(event domain.Event, err error) bool {
			select {
			case updates <- Update{Event: event, Err: err}:
				return true
			case <-r.stop:
				return false
			case <-ctx.Done():
				return false
			}
		})
	}()
	return updates, nil
}

func (r *Runner) run(ctx context.Context, yield func(domain.Event, error) bool) {
	defer r.setState(StateStopped)

	requestCtx := context.WithoutCancel(ctx)
	for {
		events, err := r.cycle(ctx, requestCtx)
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
		if err != nil {
			r.logger.Error("runner stopped", zap.Error(err))
			yield(nil, err)
			return
		}
		if !r.advance(ctx, StateSleeping) || !r.sleep(ctx) {
			return
		}
	}
}

// cycle runs Polling, Diffing and Emitting once. A non-nil error is fatal.
// Events gathered before a stop request are still returned.
func (r *Runner) cycle(ctx, requestCtx context.Context) ([]domain.Event, error) {
	if !r.advance(ctx, StatePolling) {
		return nil, nil
	}
	r.seq++
	seq := r.seq
	meta := func() domain.EventMeta { return domain.NewEventMeta(seq, r.clock.Now()) }

	chats, orders, err := r.poll(requestCtx, seq)
	if err != nil {
		return nil, err
	}

	if !r.advance(ctx, StateDiffing) {
		return nil, nil
	}
	chatDeltas := Diff(r.chats, chats.snapshot)
	orderDeltas := Diff(r.orders, orders.snapshot)

	if !r.advance(ctx, StateEmitting) {
		return nil, nil
	}
	var events []domain.Event
	events = append(events, emitOrUnavailable(meta, chats, func() []domain.Event {
		if r.cfg.EmitInitial && !r.chatsSeeded {
			return initialChatEvents(meta, chats.snapshot)
		}
		return r.chatEvents(requestCtx, meta, chatDeltas)
	})...)
	events = append(events, emitOrUnavailable(meta, orders, func() []domain.Event {
		if r.cfg.EmitInitial && !r.ordersSeeded {
			return initialOrderEvents(meta, orders.snapshot)
		}
		return r.orderEvents(meta, orderDeltas)
	})...)

	if chats.snapshot.Available {
		r.chatsSeeded = true
	}
	if orders.snapshot.Available {
		r.ordersSeeded = true
	}
	r.chats = chats.snapshot
	r.orders = orders.snapshot

	r.logger.Debug("cycle complete",
		zap.Uint64("seq", seq),
		zap.Int("chat_deltas", len(chatDeltas)),
		zap.Int("order_deltas", len(orderDeltas)),
		zap.Int("events", len(events)),
	)
	return events, nil
}

type fetched[S any] struct {
	domain   domain.Domain
	snapshot S
	err      error
}

func emitOrUnavailable[S any](meta func() domain.EventMeta, result fetched[S], translate func() []domain.Event) []domain.Event {
	if result.err != nil {
		return []domain.Event{domain.DomainUnavailableEvent{EventMeta: meta(), Domain: result.domain, Err: result.err}}
	}
	return translate()
}

// poll re-validates a stale session and fetches both domains. Only an
// authentication failure is returned; anything else marks the affected
// domain unavailable for this cycle.
func (r *Runner) poll(ctx context.Context, seq uint64) (fetched[ChatSnapshot], fetched[OrderSnapshot], error) {
	chats := fetched[ChatSnapshot]{domain: domain.DomainChats, snapshot: Unavailable[domain.ChatID, domain.ChatState](seq)}
	orders := fetched[OrderSnapshot]{domain: domain.DomainOrders, snapshot: Unavailable[domain.OrderID, domain.OrderState](seq)}

	if !r.facade.IsInitiated() || r.facade.Stale(r.cfg.StalenessThreshold) {
		if _, err := r.facade.Initiate(ctx); err != nil {
			if domain.IsAuthentication(err) {
				return chats, orders, err
			}
			r.logger.Warn("session re-validation failed", zap.Uint64("seq", seq), zap.Error(err))
			chats.err = err
			orders.err = err
			return chats, orders, nil
		}
	}

	chats.snapshot, chats.err = r.builder.Chats(ctx, seq)
	if chats.err != nil {
		if domain.IsAuthentication(chats.err) {
			return chats, orders, chats.err
		}
		r.logger.Warn("chats unavailable", zap.Uint64("seq", seq), zap.Error(chats.err))
	}

	orders.snapshot, orders.err = r.builder.Orders(ctx, seq)
	if orders.err != nil {
		if domain.IsAuthentication(orders.err) {
			return chats, orders, orders.err
		}
		r.logger.Warn("orders unavailable", zap.Uint64("seq", seq), zap.Error(orders.err))
	}
	return chats, orders, nil
}

func (r *Runner) sleep(ctx context.Context) bool {
	timer := time.NewTimer(r.cfg.PollInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-r.stop:
		r.setState(StateStopped)
		return false
	case <-ctx.Done():
		r.setState(StateStopped)
		return false
	}
}
