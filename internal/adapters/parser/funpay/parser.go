// Package funpay parses FunPay pages and runner replies into domain objects.
package funpay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

var _ ports.ResponseParser = Parser{}

// Parser holds no state; the zero value is ready to use.
type Parser struct{}

type appData struct {
	Locale    string `json:"locale"`
	UserID    int64  `json:"userId"`
	CSRFToken string `json:"csrf-token"`
}

type runnerObject struct {
	Type string          `json:"type"`
	ID   json.RawMessage `json:"id"`
	Data json.RawMessage `json:"data"`
}

type runnerReply struct {
	Objects  []runnerObject  `json:"objects"`
	Response json.RawMessage `json:"response"`
}

type chatNode struct {
	Name   string `json:"name"`
	Silent bool   `json:"silent"`
}

type rawMessage struct {
	ID     int64  `json:"id"`
	Author int64  `json:"author"`
	HTML   string `json:"html"`
}

type historyReply struct {
	Chat *struct {
		Node     chatNode     `json:"node"`
		Messages []rawMessage `json:"messages"`
	} `json:"chat"`
}

func malformed(schema string, err error) error {
	return &domain.MalformedResponseError{Schema: schema, Err: err}
}

// ParseAccount reads the main page. An anonymous page yields a zero Identity
// with the csrf token filled in; deciding that this is an auth failure is up to
// the caller.
func (Parser) ParseAccount(body []byte) (domain.Identity, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return domain.Identity{}, malformed("account", err)
	}

	data, err := readAppData(doc)
	if err != nil {
		return domain.Identity{}, malformed("account", err)
	}

	identity := domain.Identity{CSRFToken: data.CSRFToken, Locale: data.Locale}
	username := find(doc, element("div", "user-link-name"))
	if username == nil {
		return identity, nil
	}

	identity.UserID = data.UserID
	identity.Username = strings.TrimSpace(text(username))
	if logout := find(doc, element("a", "menu-item-logout")); logout != nil {
		identity.LogoutPath, _ = attr(logout, "href")
	}
	if identity.ActiveSales, err = badgeCount(doc, "badge-trade"); err != nil {
		return domain.Identity{}, malformed("account", err)
	}
	if identity.ActivePurchases, err = badgeCount(doc, "badge-orders"); err != nil {
		return domain.Identity{}, malformed("account", err)
	}
	return identity, nil
}

func readAppData(doc *html.Node) (appData, error) {
	body := find(doc, element("body"))
	raw, ok := attr(body, "data-app-data")
	if !ok {
		return appData{}, errors.New("body has no data-app-data attribute")
	}
	var data appData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return appData{}, fmt.Errorf("decode app data: %w", err)
	}
	return data, nil
}

func badgeCount(doc *html.Node, class string) (int, error) {
	badge := find(doc, element("span", "badge", class))
	if badge == nil {
		return 0, nil
	}
	value := strings.TrimSpace(text(badge))
	if value == "" {
		return 0, nil
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s badge: %w", class, err)
	}
	return count, nil
}

// ParseChats reads the chat_bookmarks object of a runner reply.
func (Parser) ParseChats(body []byte) ([]domain.ChatState, error) {
	var reply runnerReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, malformed("chats", err)
	}

	var fragment string
	for _, object := range reply.Objects {
		if object.Type != "chat_bookmarks" {
			continue
		}
		var data struct {
			HTML string `json:"html"`
		}
		if len(object.Data) == 0 || string(object.Data) == "false" {
			continue
		}
		if err := json.Unmarshal(object.Data, &data); err != nil {
			return nil, malformed("chats", fmt.Errorf("decode chat_bookmarks: %w", err))
		}
		fragment = data.HTML
	}
	if fragment == "" {
		return []domain.ChatState{}, nil
	}

	doc, err := parseFragment(fragment)
	if err != nil {
		return nil, malformed("chats", err)
	}

	items := findAll(doc, element("a", "contact-item"))
	chats := make([]domain.ChatState, 0, len(items))
	for _, item := range items {
		chat, err := parseChatItem(item)
		if err != nil {
			return nil, malformed("chats", err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func parseChatItem(item *html.Node) (domain.ChatState, error) {
	id, err := intAttr(item, "data-id")
	if err != nil {
		return domain.ChatState{}, err
	}
	nodeMessage, err := intAttr(item, "data-node-msg")
	if err != nil {
		return domain.ChatState{}, err
	}
	userMessage, err := intAttr(item, "data-user-msg")
	if err != nil {
		return domain.ChatState{}, err
	}

	preview, _ := domain.StripBotMarker(text(find(item, element("div", "contact-item-message"))))
	name := strings.TrimSpace(text(find(item, element("div", "media-user-name"))))

	return domain.ChatState{
		ID:                domain.ChatID(id),
		Name:              name,
		CounterpartName:   name,
		LastMessageID:     nodeMessage,
		LastMessageText:   preview,
		LastReadMessageID: userMessage,
		Unread:            hasClass(item, "unread"),
	}, nil
}

// ParseChatHistory reads a chat/history reply. Authors are only rendered on
// the first message of a run, so names are carried forward by author id.
func (Parser) ParseChatHistory(chatID domain.ChatID, body []byte) (domain.ChatHistory, error) {
	var reply historyReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return domain.ChatHistory{}, malformed("chat history", err)
	}

	history := domain.ChatHistory{ChatID: chatID}
	if reply.Chat == nil {
		return history, nil
	}
	history.Node = reply.Chat.Node.Name
	history.Silent = reply.Chat.Node.Silent

	messages, err := parseMessages(chatID, reply.Chat.Messages)
	if err != nil {
		return domain.ChatHistory{}, malformed("chat history", err)
	}
	history.Messages = messages
	return history, nil
}

func parseMessages(chatID domain.ChatID, raw []rawMessage) ([]domain.Message, error) {
	authors := map[int64]string{0: "FunPay"}
	messages := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		doc, err := parseFragment(item.HTML)
		if err != nil {
			return nil, fmt.Errorf("parse message %d: %w", item.ID, err)
		}

		if _, known := authors[item.Author]; !known {
			if author := find(doc, element("div", "media-user-name")); author != nil {
				if link := find(author, element("a")); link != nil {
					authors[item.Author] = strings.TrimSpace(text(link))
				}
			}
		}

		message := domain.Message{ID: item.ID, ChatID: chatID, AuthorID: item.Author}
		switch {
		case find(doc, element("a", "chat-img-link")) != nil:
			link := find(doc, element("a", "chat-img-link"))
			message.ImageURL, _ = attr(link, "href")
		case item.Author == 0:
			alert := find(doc, func(n *html.Node) bool {
				role, _ := attr(n, "role")
				return n.Type == html.ElementNode && role == "alert"
			})
			message.Text = strings.TrimSpace(text(alert))
		default:
			body := find(doc, element("div", "chat-msg-text"))
			if body == nil {
				return nil, fmt.Errorf("message %d has no text block", item.ID)
			}
			message.Text, message.ByBot = domain.StripBotMarker(text(body))
		}
		messages = append(messages, message)
	}

	for i := range messages {
		messages[i].Author = authors[messages[i].AuthorID]
	}
	return messages, nil
}

// ParseSentMessage reads the runner reply to a chat_message request.
func (Parser) ParseSentMessage(chatID domain.ChatID, body []byte) (domain.SentMessage, error) {
	var reply runnerReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return domain.SentMessage{}, malformed("sent message", err)
	}

	sent := domain.SentMessage{ChatID: chatID}
	if len(reply.Response) == 0 || string(reply.Response) == "null" || string(reply.Response) == "false" {
		sent.Error = "empty response"
		return sent, nil
	}

	var response struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(reply.Response, &response); err != nil {
		return domain.SentMessage{}, malformed("sent message", err)
	}
	if response.Error != nil {
		sent.Error = *response.Error
		if sent.Error == "" {
			sent.Error = "rejected"
		}
		return sent, nil
	}

	for _, object := range reply.Objects {
		var data struct {
			Messages []rawMessage `json:"messages"`
		}
		if len(object.Data) == 0 || json.Unmarshal(object.Data, &data) != nil {
			continue
		}
		if n := len(data.Messages); n > 0 {
			sent.MessageID = data.Messages[n-1].ID
		}
	}
	return sent, nil
}

// ParseOrders reads one page of orders/trade.
func (Parser) ParseOrders(body []byte) (domain.OrdersPage, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return domain.OrdersPage{}, malformed("orders", err)
	}

	page := domain.OrdersPage{}
	if next := find(doc, func(n *html.Node) bool {
		name, _ := attr(n, "name")
		kind, _ := attr(n, "type")
		return n.Type == html.ElementNode && n.Data == "input" && kind == "hidden" && name == "continue"
	}); next != nil {
		page.Next, _ = attr(next, "value")
	}

	rows := findAll(doc, element("a", "tc-item"))
	page.Orders = make([]domain.OrderState, 0, len(rows))
	for _, row := range rows {
		order, err := parseOrderRow(row)
		if err != nil {
			return domain.OrdersPage{}, malformed("orders", err)
		}
		page.Orders = append(page.Orders, order)
	}
	return page, nil
}

func parseOrderRow(row *html.Node) (domain.OrderState, error) {
	idText := strings.TrimSpace(text(find(row, element("div", "tc-order"))))
	id := strings.TrimPrefix(idText, "#")
	if id == "" {
		return domain.OrderState{}, errors.New("order row has no id")
	}

	order := domain.OrderState{ID: domain.OrderID(id), Status: rowStatus(row)}
	if desc := find(row, element("div", "order-desc")); desc != nil {
		inner := find(desc, element("div"))
		if inner == nil {
			inner = desc
		}
		order.Description = strings.TrimSpace(text(inner))
	}

	price, currency, err := splitPrice(text(find(row, element("div", "tc-price"))))
	if err != nil {
		return domain.OrderState{}, fmt.Errorf("order %s: %w", id, err)
	}
	order.Price = price
	order.Currency = currency

	if buyer := find(find(row, element("div", "media-user-name")), element("span")); buyer != nil {
		order.BuyerName = strings.TrimSpace(text(buyer))
		if href, ok := attr(buyer, "data-href"); ok {
			order.BuyerID = userIDFromLink(href)
		}
	}

	statusText := strings.TrimSpace(text(find(row, element("div", "tc-status"))))
	dateText := strings.TrimSpace(text(find(row, element("div", "tc-date-time"))))
	order.Marker = strings.Trim(statusText+"|"+dateText, "|")
	return order, nil
}

func rowStatus(row *html.Node) domain.OrderStatus {
	switch {
	case hasClass(row, "warning"):
		return domain.OrderStatusRefunded
	case hasClass(row, "info"):
		return domain.OrderStatusPaid
	default:
		return domain.OrderStatusClosed
	}
}

func splitPrice(value string) (float64, string, error) {
	fields := strings.Fields(strings.ReplaceAll(value, "\u00a0", " "))
	if len(fields) < 2 {
		return 0, "", fmt.Errorf("unexpected price %q", value)
	}
	number := strings.Join(fields[:len(fields)-1], "")
	price, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse price %q: %w", value, err)
	}
	return price, fields[len(fields)-1], nil
}

func userIDFromLink(href string) int64 {
	_, tail, ok := strings.Cut(href, "/users/")
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(strings.Trim(tail, "/"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func intAttr(n *html.Node, key string) (int64, error) {
	value, ok := attr(n, key)
	if !ok {
		return 0, fmt.Errorf("missing %s attribute", key)
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
