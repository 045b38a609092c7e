// Package envelope is the JSON wire form shared by every event sink.
package envelope

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Halone228/funpay-api/internal/domain"
)

type Envelope struct {
	ID             uuid.UUID          `json:"id"`
	Seq            uint64             `json:"seq"`
	Kind           domain.EventKind   `json:"kind"`
	DetectedAt     time.Time          `json:"detected_at"`
	Chat           *Chat              `json:"chat,omitempty"`
	Message        *Message           `json:"message,omitempty"`
	Order          *Order             `json:"order,omitempty"`
	PreviousStatus domain.OrderStatus `json:"previous_status,omitempty"`
	Changes        []Change           `json:"changes,omitempty"`
	Domain         domain.Domain      `json:"domain,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type Chat struct {
	ID              int64  `json:"id"`
	Name            string `json:"name,omitempty"`
	CounterpartID   int64  `json:"counterpart_id,omitempty"`
	CounterpartName string `json:"counterpart_name,omitempty"`
	LastMessageID   int64  `json:"last_message_id"`
	LastMessageText string `json:"last_message_text"`
	Unread          bool   `json:"unread"`
}

type Message struct {
	ID          int64  `json:"id"`
	AuthorID    int64  `json:"author_id,omitempty"`
	Author      string `json:"author,omitempty"`
	Text        string `json:"text"`
	ImageURL    string `json:"image_url,omitempty"`
	ByBot       bool   `json:"by_bot,omitempty"`
	FromPreview bool   `json:"from_preview,omitempty"`
}

type Order struct {
	ID          string             `json:"id"`
	Status      domain.OrderStatus `json:"status"`
	BuyerID     int64              `json:"buyer_id,omitempty"`
	BuyerName   string             `json:"buyer_name,omitempty"`
	Description string             `json:"description,omitempty"`
	Price       float64            `json:"price"`
	Currency    string             `json:"currency,omitempty"`
}

type Change struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func FromEvent(event domain.Event) Envelope {
	meta := event.Meta()
	out := Envelope{
		ID:         meta.ID,
		Seq:        meta.Seq,
		Kind:       event.Kind(),
		DetectedAt: meta.DetectedAt.UTC(),
	}

	switch e := event.(type) {
	case domain.NewMessageEvent:
		out.Chat = chat(e.Chat)
		out.Message = message(e.Message)
	case domain.MessageChangedEvent:
		out.Chat = chat(e.Chat)
		out.Changes = changes(e.Changes)
	case domain.NewOrderEvent:
		out.Order = order(e.Order)
	case domain.OrderStatusChangedEvent:
		out.Order = order(e.Order)
		out.PreviousStatus = e.Previous
		out.Changes = changes(e.Changes)
	case domain.InitialChatEvent:
		out.Chat = chat(e.Chat)
	case domain.InitialOrderEvent:
		out.Order = order(e.Order)
	case domain.DomainUnavailableEvent:
		out.Domain = e.Domain
		if e.Err != nil {
			out.Error = e.Err.Error()
		}
	}
	return out
}

func Marshal(event domain.Event) ([]byte, error) {
	data, err := json.Marshal(FromEvent(event))
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Kind(), err)
	}
	return data, nil
}

func chat(c domain.ChatState) *Chat {
	return &Chat{
		ID:              int64(c.ID),
		Name:            c.Name,
		CounterpartID:   c.CounterpartID,
		CounterpartName: c.CounterpartName,
		LastMessageID:   c.LastMessageID,
		LastMessageText: c.LastMessageText,
		Unread:          c.Unread,
	}
}

func message(m domain.Message) *Message {
	return &Message{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Author:      m.Author,
		Text:        m.Text,
		ImageURL:    m.ImageURL,
		ByBot:       m.ByBot,
		FromPreview: m.FromPreview,
	}
}

func order(o domain.OrderState) *Order {
	return &Order{
		ID:          string(o.ID),
		Status:      o.Status,
		BuyerID:     o.BuyerID,
		BuyerName:   o.BuyerName,
		Description: o.Description,
		Price:       o.Price,
		Currency:    o.Currency,
	}
}

func changes(in []domain.FieldChange) []Change {
	out := make([]Change, 0, len(in))
	for _, change := range in {
		out = append(out, Change{Field: change.Field, Old: change.Old, New: change.New})
	}
	return out
}
