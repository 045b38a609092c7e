package account

import (
	"context"
	"time"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
	"github.com/Halone228/funpay-api/internal/session"
)

var _ Facade = (*Blocking)(nil)

// Blocking runs every operation to completion on the caller's goroutine.
type Blocking struct {
	ops *operations
}

func NewBlocking(client *session.Client, parser ports.ResponseParser, opts ...Option) *Blocking {
	return &Blocking{ops: newOperations(client, parser, opts...)}
}

func (b *Blocking) Initiate(ctx context.Context) (domain.Identity, error) {
	return b.ops.initiate(ctx)
}

func (b *Blocking) Profile(ctx context.Context) (domain.Identity, error) {
	return b.ops.profile(ctx)
}

func (b *Blocking) Chats(ctx context.Context) ([]domain.ChatState, error) {
	return b.ops.chats(ctx)
}

func (b *Blocking) ChatHistory(ctx context.Context, chatID domain.ChatID) (domain.ChatHistory, error) {
	return b.ops.chatHistory(ctx, chatID)
}

func (b *Blocking) OrdersPage(ctx context.Context, cursor string) (domain.OrdersPage, error) {
	return b.ops.ordersPage(ctx, cursor)
}

func (b *Blocking) SendMessage(ctx context.Context, chatID domain.ChatID, text string) (domain.Message, error) {
	return b.ops.sendMessage(ctx, chatID, text)
}

func (b *Blocking) IsInitiated() bool {
	return b.ops.client.IsInitiated()
}

func (b *Blocking) Stale(threshold time.Duration) bool {
	return b.ops.client.Stale(threshold)
}
