package domain

import (
	"strconv"
	"strings"
)

type ChatID int64

const (
	FieldLastMessageID   = "last_message_id"
	FieldLastMessageText = "last_message_text"
	FieldUnread          = "unread"
	FieldCounterpartName = "counterpart_name"
)

// BotMarker is prepended to messages sent by this program so they can be told
// apart from ones typed by the account owner.
const (
	BotMarker    = "\u2061"
	OldBotMarker = "\u2064"
)

// ChatState is the chat list preview for one conversation.
type ChatState struct {
	ID              ChatID
	Name            string
	CounterpartID   int64
	CounterpartName string
	LastMessageID   int64
	LastMessageText string
	// LastReadMessageID is the newest message the account itself has seen.
	LastReadMessageID int64
	Unread            bool
}

func (c ChatState) TrackedFields() []Field {
	return []Field{
		{Name: FieldLastMessageID, Value: strconv.FormatInt(c.LastMessageID, 10)},
		{Name: FieldLastMessageText, Value: c.LastMessageText},
		{Name: FieldUnread, Value: strconv.FormatBool(c.Unread)},
		{Name: FieldCounterpartName, Value: c.CounterpartName},
	}
}

type Message struct {
	ID       int64
	ChatID   ChatID
	ChatName string
	AuthorID int64
	Author   string
	Text     string
	ImageURL string
	ByBot    bool
	// FromPreview is set when the message was built from the chat list preview
	// because the history could not be fetched.
	FromPreview bool
}

// StripBotMarker removes a leading bot marker and reports whether one was present.
func StripBotMarker(text string) (string, bool) {
	for _, marker := range []string{BotMarker, OldBotMarker} {
		if len(text) >= len(marker) && text[:len(marker)] == marker {
			return text[len(marker):], true
		}
	}
	return text, false
}

// ChatHistory is one page of messages for a chat, oldest first.
type ChatHistory struct {
	ChatID ChatID
	// Node is the site's node name, "users-<id>-<id>" for private chats.
	Node     string
	Silent   bool
	Messages []Message
}

// Counterpart returns the other participant of a private chat node.
func (h ChatHistory) Counterpart(selfID int64) (int64, bool) {
	if h.Silent {
		return 0, false
	}
	parts := strings.Split(h.Node, "-")
	if len(parts) != 3 || parts[0] != "users" {
		return 0, false
	}
	for _, part := range parts[1:] {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, false
		}
		if id != selfID {
			return id, true
		}
	}
	return 0, false
}

// Newest returns the message with the highest id.
func (h ChatHistory) Newest() (Message, bool) {
	if len(h.Messages) == 0 {
		return Message{}, false
	}
	newest := h.Messages[0]
	for _, message := range h.Messages[1:] {
		if message.ID > newest.ID {
			newest = message
		}
	}
	return newest, true
}

// SentMessage is the site's reply to a send request.
type SentMessage struct {
	ChatID    ChatID
	MessageID int64
	// Error is the site-provided rejection text; empty when delivered.
	Error string
}

func (s SentMessage) Delivered() bool {
	return s.Error == ""
}
