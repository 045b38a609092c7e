package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventNewMessage         EventKind = "new_message"
	EventMessageChanged     EventKind = "message_changed"
	EventNewOrder           EventKind = "new_order"
	EventOrderStatusChanged EventKind = "order_status_changed"
	EventInitialChat        EventKind = "initial_chat"
	EventInitialOrder       EventKind = "initial_order"
	EventDomainUnavailable  EventKind = "domain_unavailable"
)

// Domain names a polled collection.
type Domain string

const (
	DomainChats  Domain = "chats"
	DomainOrders Domain = "orders"
)

// EventMeta is shared by every event. Seq is the poll cycle that produced it.
type EventMeta struct {
	ID         uuid.UUID
	Seq        uint64
	DetectedAt time.Time
}

func NewEventMeta(seq uint64, detectedAt time.Time) EventMeta {
	return EventMeta{ID: uuid.New(), Seq: seq, DetectedAt: detectedAt}
}

func (m EventMeta) Meta() EventMeta {
	return m
}

// Event is a closed set; switch on the concrete type to handle it.
type Event interface {
	Kind() EventKind
	Meta() EventMeta
	isEvent()
}

type NewMessageEvent struct {
	EventMeta
	Chat    ChatState
	Message Message
}

type MessageChangedEvent struct {
	EventMeta
	Chat    ChatState
	Changes []FieldChange
}

type NewOrderEvent struct {
	EventMeta
	Order OrderState
}

type OrderStatusChangedEvent struct {
	EventMeta
	Order    OrderState
	Previous OrderStatus
	Changes  []FieldChange
}

type InitialChatEvent struct {
	EventMeta
	Chat ChatState
}

type InitialOrderEvent struct {
	EventMeta
	Order OrderState
}

// DomainUnavailableEvent reports that one domain could not be fetched this cycle.
// The runner keeps polling.
type DomainUnavailableEvent struct {
	EventMeta
	Domain Domain
	Err    error
}

func (NewMessageEvent) Kind() EventKind         { return EventNewMessage }
func (MessageChangedEvent) Kind() EventKind     { return EventMessageChanged }
func (NewOrderEvent) Kind() EventKind           { return EventNewOrder }
func (OrderStatusChangedEvent) Kind() EventKind { return EventOrderStatusChanged }
func (InitialChatEvent) Kind() EventKind        { return EventInitialChat }
func (InitialOrderEvent) Kind() EventKind       { return EventInitialOrder }
func (DomainUnavailableEvent) Kind() EventKind  { return EventDomainUnavailable }

func (NewMessageEvent) isEvent()         {}
func (MessageChangedEvent) isEvent()     {}
func (NewOrderEvent) isEvent()           {}
func (OrderStatusChangedEvent) isEvent() {}
func (InitialChatEvent) isEvent()        {}
func (InitialOrderEvent) isEvent()       {}
func (DomainUnavailableEvent) isEvent()  {}
