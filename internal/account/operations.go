// Package account exposes FunPay account operations in two scheduling modes
// that share one implementation.
package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
	"github.com/Halone228/funpay-api/internal/session"
)

const (
	runnerPath      = "/runner/"
	historyPath     = "/chat/history"
	ordersPath      = "/orders/trade"
	newestMessageID = "999999999999999999"
)

// Facade is the scheduler-agnostic contract the updater polls.
type Facade interface {
	Initiate(ctx context.Context) (domain.Identity, error)
	Profile(ctx context.Context) (domain.Identity, error)
	Chats(ctx context.Context) ([]domain.ChatState, error)
	ChatHistory(ctx context.Context, chatID domain.ChatID) (domain.ChatHistory, error)
	OrdersPage(ctx context.Context, cursor string) (domain.OrdersPage, error)
	SendMessage(ctx context.Context, chatID domain.ChatID, text string) (domain.Message, error)
	IsInitiated() bool
	Stale(threshold time.Duration) bool
}

type Option func(*operations)

func WithLogger(logger *zap.Logger) Option {
	return func(o *operations) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OnSent registers a callback invoked with every delivered message.
func OnSent(hook func(domain.Message)) Option {
	return func(o *operations) {
		if hook != nil {
			o.sentHooks = append(o.sentHooks, hook)
		}
	}
}

// operations performs request + parse for each account call. It is shared by
// Blocking and Concurrent so both return identical values.
type operations struct {
	client    *session.Client
	parser    ports.ResponseParser
	logger    *zap.Logger
	sentHooks []func(domain.Message)
}

func newOperations(client *session.Client, parser ports.ResponseParser, opts ...Option) *operations {
	o := &operations{client: client, parser: parser, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *operations) initiate(ctx context.Context) (domain.Identity, error) {
	return o.client.Initiate(ctx)
}

// profile re-reads the main page of an initiated session, refreshing the
// csrf token and the order badges.
func (o *operations) profile(ctx context.Context) (domain.Identity, error) {
	if !o.client.IsInitiated() {
		return domain.Identity{}, domain.ErrNotInitiated
	}
	return o.client.Initiate(ctx)
}

func (o *operations) chats(ctx context.Context) ([]domain.ChatState, error) {
	identity, ok := o.client.Identity()
	if !ok {
		return nil, domain.ErrNotInitiated
	}

	objects, err := json.Marshal([]map[string]any{{
		"type": "chat_bookmarks",
		"id":   identity.UserID,
		"tag":  randomTag(),
		"data": false,
	}})
	if err != nil {
		return nil, fmt.Errorf("encode chat bookmarks request: %w", err)
	}

	resp, err := o.client.Do(ctx, session.Endpoint{
		Name: "chats",
		Path: runnerPath,
		XHR:  true,
		CSRF: true,
		Form: url.Values{"objects": {string(objects)}, "request": {"false"}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch chats: %w", err)
	}

	chats, err := o.parser.ParseChats(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch chats: %w", err)
	}
	return chats, nil
}

func (o *operations) chatHistory(ctx context.Context, chatID domain.ChatID) (domain.ChatHistory, error) {
	identity, ok := o.client.Identity()
	if !ok {
		return domain.ChatHistory{}, domain.ErrNotInitiated
	}

	resp, err := o.client.Do(ctx, session.Endpoint{
		Name:   "chat history",
		Method: http.MethodGet,
		Path:   historyPath,
		XHR:    true,
		Query: url.Values{
			"node":         {strconv.FormatInt(int64(chatID), 10)},
			"last_message": {newestMessageID},
		},
	})
	if err != nil {
		return domain.ChatHistory{}, fmt.Errorf("fetch chat %d history: %w", chatID, err)
	}

	history, err := o.parser.ParseChatHistory(chatID, resp.Body)
	if err != nil {
		return domain.ChatHistory{}, fmt.Errorf("fetch chat %d history: %w", chatID, err)
	}

	chatName := ""
	if counterpart, ok := history.Counterpart(identity.UserID); ok {
		for _, message := range history.Messages {
			if message.AuthorID == counterpart && message.Author != "" {
				chatName = message.Author
				break
			}
		}
	}
	for i := range history.Messages {
		message := &history.Messages[i]
		if message.AuthorID == identity.UserID && message.Author == "" {
			message.Author = identity.Username
		}
		message.ChatName = chatName
	}
	return history, nil
}

// ordersPage fetches one page of sales. An empty cursor requests the first page.
func (o *operations) ordersPage(ctx context.Context, cursor string) (domain.OrdersPage, error) {
	if !o.client.IsInitiated() {
		return domain.OrdersPage{}, domain.ErrNotInitiated
	}

	endpoint := session.Endpoint{Name: "orders", Method: http.MethodGet, Path: ordersPath}
	if cursor != "" {
		endpoint.Method = http.MethodPost
		endpoint.Form = url.Values{"continue": {cursor}}
	}

	resp, err := o.client.Do(ctx, endpoint)
	if err != nil {
		return domain.OrdersPage{}, fmt.Errorf("fetch orders page: %w", err)
	}

	page, err := o.parser.ParseOrders(resp.Body)
	if err != nil {
		return domain.OrdersPage{}, fmt.Errorf("fetch orders page: %w", err)
	}

	identity, _ := o.client.Identity()
	for i := range page.Orders {
		page.Orders[i].SellerID = identity.UserID
	}
	return page, nil
}

func (o *operations) sendMessage(ctx context.Context, chatID domain.ChatID, text string) (domain.Message, error) {
	identity, ok := o.client.Identity()
	if !ok {
		return domain.Message{}, domain.ErrNotInitiated
	}
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, &domain.MessageNotDeliveredError{ChatID: chatID, Reason: "empty message"}
	}

	node := int64(chatID)
	request, err := json.Marshal(map[string]any{
		"action": "chat_message",
		"data": map[string]any{
			"node":         node,
			"last_message": -1,
			"content":      domain.BotMarker + text,
		},
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode chat message: %w", err)
	}
	objects, err := json.Marshal([]map[string]any{{
		"type": "chat_node",
		"id":   node,
		"tag":  "00000000",
		"data": map[string]any{"node": node, "last_message": -1, "content": ""},
	}})
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode chat node: %w", err)
	}

	resp, err := o.client.Do(ctx, session.Endpoint{
		Name: "send message",
		Path: runnerPath,
		XHR:  true,
		CSRF: true,
		Form: url.Values{"objects": {string(objects)}, "request": {string(request)}},
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("send message to chat %d: %w", chatID, err)
	}

	sent, err := o.parser.ParseSentMessage(chatID, resp.Body)
	if err != nil {
		return domain.Message{}, fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	if !sent.Delivered() {
		return domain.Message{}, &domain.MessageNotDeliveredError{ChatID: chatID, Reason: sent.Error}
	}

	message := domain.Message{
		ID:       sent.MessageID,
		ChatID:   chatID,
		AuthorID: identity.UserID,
		Author:   identity.Username,
		Text:     text,
		ByBot:    true,
	}
	for _, hook := range o.sentHooks {
		hook(message)
	}
	o.logger.Debug("message sent", zap.Int64("chat_id", node), zap.Int64("message_id", message.ID))
	return message, nil
}

func randomTag() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
