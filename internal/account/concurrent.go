package account

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
	"github.com/Halone228/funpay-api/internal/session"
)

var _ Facade = (*Concurrent)(nil)

// Future is the pending result of an operation started by Concurrent.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await blocks the calling goroutine until the operation finishes or ctx is
// done. Abandoning a Future does not cancel the operation behind it.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Concurrent starts every operation on its own goroutine and hands back a
// Future. Operations of one Concurrent never overlap: each holds a weight-1
// semaphore while it talks to the site.
type Concurrent struct {
	ops *operations
	sem *semaphore.Weighted
}

func NewConcurrent(client *session.Client, parser ports.ResponseParser, opts ...Option) *Concurrent {
	return &Concurrent{ops: newOperations(client, parser, opts...), sem: semaphore.NewWeighted(1)}
}

func submit[T any](c *Concurrent, ctx context.Context, op func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := c.sem.Acquire(ctx, 1); err != nil {
			f.err = err
			return
		}
		defer c.sem.Release(1)
		f.value, f.err = op(ctx)
	}()
	return f
}

func (c *Concurrent) InitiateAsync(ctx context.Context) *Future[domain.Identity] {
	return submit(c, ctx, c.ops.initiate)
}

func (c *Concurrent) ProfileAsync(ctx context.Context) *Future[domain.Identity] {
	return submit(c, ctx, c.ops.profile)
}

func (c *Concurrent) ChatsAsync(ctx context.Context) *Future[[]domain.ChatState] {
	return submit(c, ctx, c.ops.chats)
}

func (c *Concurrent) ChatHistoryAsync(ctx context.Context, chatID domain.ChatID) *Future[domain.ChatHistory] {
	return submit(c, ctx, func(ctx context.Context) (domain.ChatHistory, error) {
		return c.ops.chatHistory(ctx, chatID)
	})
}

func (c *Concurrent) OrdersPageAsync(ctx context.Context, cursor string) *Future[domain.OrdersPage] {
	return submit(c, ctx, func(ctx context.Context) (domain.OrdersPage, error) {
		return c.ops.ordersPage(ctx, cursor)
	})
}

func (c *Concurrent) SendMessageAsync(ctx context.Context, chatID domain.ChatID, text string) *Future[domain.Message] {
	return submit(c, ctx, func(ctx context.Context) (domain.Message, error) {
		return c.ops.sendMessage(ctx, chatID, text)
	})
}

func (c *Concurrent) Initiate(ctx context.Context) (domain.Identity, error) {
	return c.InitiateAsync(ctx).Await(ctx)
}

func (c *Concurrent) Profile(ctx context.Context) (domain.Identity, error) {
	return c.ProfileAsync(ctx).Await(ctx)
}

func (c *Concurrent) Chats(ctx context.Context) ([]domain.ChatState, error) {
	return c.ChatsAsync(ctx).Await(ctx)
}

func (c *Concurrent) ChatHistory(ctx context.Context, chatID domain.ChatID) (domain.ChatHistory, error) {
	return c.ChatHistoryAsync(ctx, chatID).Await(ctx)
}

func (c *Concurrent) OrdersPage(ctx context.Context, cursor string) (domain.OrdersPage, error) {
	return c.OrdersPageAsync(ctx, cursor).Await(ctx)
}

func (c *Concurrent) SendMessage(ctx context.Context, chatID domain.ChatID, text string) (domain.Message, error) {
	return c.SendMessageAsync(ctx, chatID, text).Await(ctx)
}

// IsInitiated reads session state without queueing behind running operations.
func (c *Concurrent) IsInitiated() bool {
	return c.ops.client.IsInitiated()
}

func (c *Concurrent) Stale(threshold time.Duration) bool {
	return c.ops.client.Stale(threshold)
}
