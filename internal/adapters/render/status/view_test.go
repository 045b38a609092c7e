package status

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

func TestRenderOverview(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render(Overview{
		Account: domain.Account{
			ID:      "main",
			Name:    "Main shop",
			Auth:    domain.Auth{Method: domain.AuthMethodGoldenKey},
			Profile: domain.Profile{UserID: 42, Username: "seller42", VerifiedAt: now.Add(-2 * time.Hour)},
		},
		Identity: domain.Identity{UserID: 42, Username: "seller42", Locale: "en", ActiveSales: 3, ActivePurchases: 1},
		Chats: []domain.ChatState{
			{ID: 101, CounterpartName: "buyer_one", LastMessageText: "is it available?", Unread: true},
		},
		Orders: []domain.OrderState{
			{ID: "AAA111", Status: domain.OrderStatusPaid, BuyerName: "buyer_one", Description: "Gold, 100 pcs", Price: 1250.5, Currency: "₽"},
		},
	}, RenderOptions{Now: now, StaleAfter: 24 * time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "FunPay Account")
	assert.Contains(t, output, "seller42 (main)")
	assert.Contains(t, output, "user id: 42")
	assert.Contains(t, output, "active sales: 3")
	assert.Contains(t, output, "verified 2 hours ago")
	assert.NotContains(t, output, "[stale]")
	assert.Contains(t, output, "chats: 1")
	assert.Contains(t, output, "* is it available?")
	assert.Contains(t, output, "orders: 1")
	assert.Contains(t, output, "#AAA111")
	assert.Contains(t, output, "1250.50 ₽")
}

func TestRenderOverviewMarksStaleVerification(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render(Overview{
		Account:  domain.Account{ID: "main", Profile: domain.Profile{UserID: 42, VerifiedAt: now.Add(-72 * time.Hour)}},
		Identity: domain.Identity{UserID: 42, Username: "seller42"},
	}, RenderOptions{Now: now, StaleAfter: 24 * time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "verified 3 days ago")
	assert.Contains(t, output, "[stale]")
	assert.NotContains(t, output, "chats:")
}

func TestRenderOverviewWithoutIdentity(t *testing.T) {
	output, err := Render(Overview{
		Account: domain.Account{ID: "main", Name: "Main shop"},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Main shop (main)")
	assert.Contains(t, output, "auth: none")
}

func TestRenderListingsEmpty(t *testing.T) {
	assert.Contains(t, RenderChats(nil), "No chats.")
	assert.Contains(t, RenderOrders(nil), "No orders.")
}

func TestRenderEvent(t *testing.T) {
	meta := domain.NewEventMeta(7, time.Date(2026, 2, 14, 11, 30, 5, 0, time.UTC))
	chat := domain.ChatState{ID: 101, CounterpartName: "buyer_one", LastMessageText: "edited"}
	order := domain.OrderState{ID: "AAA111", Status: domain.OrderStatusPaid, Price: 10, Currency: "$", Description: "Gold"}

	tests := []struct {
		name  string
		event domain.Event
		want  []string
	}{
		{
			name:  "new message",
			event: domain.NewMessageEvent{EventMeta: meta, Chat: chat, Message: domain.Message{ID: 5, Author: "buyer_one", Text: "hello"}},
			want:  []string{"11:30:05 #7", "new_message", "chat 101 buyer_one: hello"},
		},
		{
			name:  "message from preview uses chat name",
			event: domain.NewMessageEvent{EventMeta: meta, Chat: chat, Message: domain.Message{ID: 5, ChatName: "buyer_one", Text: "hi", FromPreview: true}},
			want:  []string{"chat 101 buyer_one: hi"},
		},
		{
			name:  "message changed",
			event: domain.MessageChangedEvent{EventMeta: meta, Chat: chat},
			want:  []string{"message_changed", "chat 101: edited"},
		},
		{
			name:  "new order",
			event: domain.NewOrderEvent{EventMeta: meta, Order: order},
			want:  []string{"new_order", "#AAA111", "paid", "10 $ Gold"},
		},
		{
			name:  "status changed",
			event: domain.OrderStatusChangedEvent{EventMeta: meta, Order: order, Previous: domain.OrderStatusNew},
			want:  []string{"order_status_changed", "new", "->", "paid"},
		},
		{
			name:  "domain unavailable",
			event: domain.DomainUnavailableEvent{EventMeta: meta, Domain: domain.DomainOrders, Err: errors.New("timeout")},
			want:  []string{"domain_unavailable", "orders unavailable: timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := RenderEvent(tt.event)
			for _, want := range tt.want {
				assert.Contains(t, line, want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "240", string(interpolateColor(0, 0, 100)))
	assert.Equal(t, "255", string(interpolateColor(100, 0, 100)))
	assert.Equal(t, "255", string(interpolateColor(5, 5, 5)))
}
