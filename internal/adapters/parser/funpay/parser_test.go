package funpay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

const mainPage = `<!DOCTYPE html>
<html><body data-app-data='{"locale":"en","userId":42,"csrf-token":"csrf-abc"}'>
<div class="user-link-name">seller42</div>
<a class="menu-item-logout" href="https://funpay.com/account/logout?token=1">Logout</a>
<span class="badge badge-trade">3</span>
<span class="badge badge-orders">1</span>
</body></html>`

const anonymousPage = `<html><body data-app-data='{"locale":"ru","userId":0,"csrf-token":"anon"}'><a href="/account/login">Login</a></body></html>`

func runnerBody(t *testing.T, objects ...map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{"objects": objects, "response": false})
	require.NoError(t, err)
	return body
}

func TestParseAccount(t *testing.T) {
	t.Parallel()

	identity, err := Parser{}.ParseAccount([]byte(mainPage))
	require.NoError(t, err)

	assert.Equal(t, domain.Identity{
		UserID:          42,
		Username:        "seller42",
		CSRFToken:       "csrf-abc",
		Locale:          "en",
		ActiveSales:     3,
		ActivePurchases: 1,
		LogoutPath:      "https://funpay.com/account/logout?token=1",
	}, identity)
}

func TestParseAccountAnonymousPage(t *testing.T) {
	t.Parallel()

	identity, err := Parser{}.ParseAccount([]byte(anonymousPage))
	require.NoError(t, err)
	assert.False(t, identity.Valid())
	assert.Equal(t, "anon", identity.CSRFToken)
}

func TestParseAccountWithoutAppDataIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := Parser{}.ParseAccount([]byte(`<html><body>maintenance</body></html>`))

	var malformedErr *domain.MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "account", malformedErr.Schema)
}

func TestParseChats(t *testing.T) {
	t.Parallel()

	fragment := `<a class="contact-item unread" data-id="101" data-node-msg="900" data-user-msg="880">
<div class="media-user-name">buyer_one</div><div class="contact-item-message">hello there</div></a>
<a class="contact-item" data-id="102" data-node-msg="700" data-user-msg="700">
<div class="media-user-name">buyer_two</div><div class="contact-item-message">` + domain.BotMarker + `auto reply</div></a>`

	body := runnerBody(t, map[string]any{"type": "chat_bookmarks", "id": 42, "data": map[string]any{"html": fragment}})

	chats, err := Parser{}.ParseChats(body)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	assert.Equal(t, domain.ChatState{
		ID:                101,
		Name:              "buyer_one",
		CounterpartName:   "buyer_one",
		LastMessageID:     900,
		LastMessageText:   "hello there",
		LastReadMessageID: 880,
		Unread:            true,
	}, chats[0])
	assert.Equal(t, "auto reply", chats[1].LastMessageText)
	assert.False(t, chats[1].Unread)
}

func TestParseChatsEmptyBookmarks(t *testing.T) {
	t.Parallel()

	chats, err := Parser{}.ParseChats(runnerBody(t, map[string]any{"type": "chat_bookmarks", "data": false}))
	require.NoError(t, err)
	assert.NotNil(t, chats)
	assert.Empty(t, chats)
}

func TestParseChatsRejectsBrokenItem(t *testing.T) {
	t.Parallel()

	body := runnerBody(t, map[string]any{"type": "chat_bookmarks", "data": map[string]any{"html": `<a class="contact-item" data-id="x"></a>`}})

	_, err := Parser{}.ParseChats(body)
	var malformedErr *domain.MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
}

func TestParseChatHistory(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(map[string]any{
		"chat": map[string]any{
			"node": map[string]any{"name": "users-42-77", "silent": false},
			"messages": []map[string]any{
				{"id": 1, "author": 77, "html": `<div class="media-user-name"><a href="/users/77/">buyer</a></div><div class="chat-msg-text">first</div>`},
				{"id": 2, "author": 77, "html": `<div class="chat-msg-text">second<br>line</div>`},
				{"id": 3, "author": 42, "html": `<div class="media-user-name"><a href="/users/42/">seller42</a></div><div class="chat-msg-text">` + domain.BotMarker + `thanks</div>`},
				{"id": 4, "author": 0, "html": `<div role="alert"> The buyer paid for order #ABC </div>`},
				{"id": 5, "author": 77, "html": `<a class="chat-img-link" href="https://sfunpay.com/img.png"><img alt="img.png"></a>`},
			},
		},
	})
	require.NoError(t, err)

	history, err := Parser{}.ParseChatHistory(101, body)
	require.NoError(t, err)

	assert.Equal(t, "users-42-77", history.Node)
	require.Len(t, history.Messages, 5)
	assert.Equal(t, domain.Message{ID: 2, ChatID: 101, AuthorID: 77, Author: "buyer", Text: "second\nline"}, history.Messages[1])
	assert.True(t, history.Messages[2].ByBot)
	assert.Equal(t, "thanks", history.Messages[2].Text)
	assert.Equal(t, "FunPay", history.Messages[3].Author)
	assert.Equal(t, "The buyer paid for order #ABC", history.Messages[3].Text)
	assert.Equal(t, "https://sfunpay.com/img.png", history.Messages[4].ImageURL)

	counterpart, ok := history.Counterpart(42)
	require.True(t, ok)
	assert.Equal(t, int64(77), counterpart)
}

func TestParseChatHistoryWithoutChat(t *testing.T) {
	t.Parallel()

	history, err := Parser{}.ParseChatHistory(7, []byte(`{"chat":null}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ChatID(7), history.ChatID)
	assert.Empty(t, history.Messages)
}

func TestParseSentMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want domain.SentMessage
	}{
		{
			name: "delivered",
			body: `{"response":{"error":null},"objects":[{"type":"chat_node","data":{"messages":[{"id":10},{"id":11}]}}]}`,
			want: domain.SentMessage{ChatID: 5, MessageID: 11},
		},
		{
			name: "flood error",
			body: `{"response":{"error":"You cannot send messages too frequently."},"objects":[]}`,
			want: domain.SentMessage{ChatID: 5, Error: "You cannot send messages too frequently."},
		},
		{
			name: "no response",
			body: `{"response":false,"objects":[]}`,
			want: domain.SentMessage{ChatID: 5, Error: "empty response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parser{}.ParseSentMessage(5, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Error == "", got.Delivered())
		})
	}
}

func TestParseOrders(t *testing.T) {
	t.Parallel()

	page := `<html><body data-app-data='{"locale":"en","userId":42,"csrf-token":"c"}'>
<div class="user-link-name">seller42</div>
<a class="tc-item info" href="/orders/AAA111/">
  <div class="tc-date-time">today, 12:30</div>
  <div class="tc-order">#AAA111</div>
  <div class="order-desc"><div>Gold, 100 pcs</div><div class="text-muted">WoW, Gold</div></div>
  <div class="media-user-name"><span data-href="https://funpay.com/users/77/">buyer</span></div>
  <div class="tc-status">Paid</div>
  <div class="tc-price">1 250.50 <span class="unit">₽</span></div>
</a>
<a class="tc-item warning" href="/orders/BBB222/">
  <div class="tc-order">#BBB222</div>
  <div class="order-desc"><div>Account</div></div>
  <div class="tc-status">Refund</div>
  <div class="tc-price">10 $</div>
</a>
<a class="tc-item" href="/orders/CCC333/">
  <div class="tc-order">#CCC333</div>
  <div class="tc-price">5 €</div>
</a>
<input type="hidden" name="continue" value="CCC333">
</body></html>`

	result, err := Parser{}.ParseOrders([]byte(page))
	require.NoError(t, err)

	assert.Equal(t, "CCC333", result.Next)
	require.Len(t, result.Orders, 3)
	assert.Equal(t, domain.OrderState{
		ID:          "AAA111",
		Status:      domain.OrderStatusPaid,
		Marker:      "Paid|today, 12:30",
		BuyerID:     77,
		BuyerName:   "buyer",
		Description: "Gold, 100 pcs",
		Price:       1250.50,
		Currency:    "₽",
	}, result.Orders[0])
	assert.Equal(t, domain.OrderStatusRefunded, result.Orders[1].Status)
	assert.Equal(t, domain.OrderStatusClosed, result.Orders[2].Status)
	assert.Equal(t, "$", result.Orders[1].Currency)
}

func TestParseOrdersLastPage(t *testing.T) {
	t.Parallel()

	result, err := Parser{}.ParseOrders([]byte(`<html><body></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, result.Next)
	assert.Empty(t, result.Orders)
}
