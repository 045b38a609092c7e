package updater

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/domain"
)

type ignoreKey struct {
	chat    domain.ChatID
	message int64
}

// chatEvents maps chat deltas to events. History is fetched only for chats
// whose newest message id moved forward.
func (r *Runner) chatEvents(ctx context.Context, meta func() domain.EventMeta, deltas []Delta[domain.ChatID, domain.ChatState]) []domain.Event {
	var events []domain.Event
	for _, delta := range deltas {
		chat := delta.Entity
		events = append(events, r.chatDeltaEvents(ctx, meta, delta)...)
		r.pruneIgnored(chat.ID, chat.LastMessageID)
	}
	return events
}

// chatDeltaEvents returns at most one event for a chat delta.
func (r *Runner) chatDeltaEvents(ctx context.Context, meta func() domain.EventMeta, delta Delta[domain.ChatID, domain.ChatState]) []domain.Event {
	chat := delta.Entity
	switch delta.Kind {
	case Created:
		if chat.LastMessageID == 0 {
			return nil
		}
		if event, ok := r.newMessage(ctx, meta, chat); ok {
			return []domain.Event{event}
		}
	case Changed:
		idChange, idChanged := domain.FindChange(delta.Changes, domain.FieldLastMessageID)
		if idChanged && advanced(idChange) {
			if event, ok := r.newMessage(ctx, meta, chat); ok {
				return []domain.Event{event}
			}
			return nil
		}
		if _, textChanged := domain.FindChange(delta.Changes, domain.FieldLastMessageText); textChanged {
			return []domain.Event{domain.MessageChangedEvent{EventMeta: meta(), Chat: chat, Changes: delta.Changes}}
		}
	}
	return nil
}

func (r *Runner) newMessage(ctx context.Context, meta func() domain.EventMeta, chat domain.ChatState) (domain.Event, bool) {
	message := r.latestMessage(ctx, chat)
	if r.consumeIgnored(chat.ID, message.ID) {
		r.logger.Debug("skipping ignored message", zap.Int64("chat_id", int64(chat.ID)), zap.Int64("message_id", message.ID))
		return nil, false
	}
	return domain.NewMessageEvent{EventMeta: meta(), Chat: chat, Message: message}, true
}

// latestMessage resolves the newest message of chat, falling back to the
// list preview when the history cannot be fetched.
func (r *Runner) latestMessage(ctx context.Context, chat domain.ChatState) domain.Message {
	preview := domain.Message{
		ID:          chat.LastMessageID,
		ChatID:      chat.ID,
		ChatName:    chat.CounterpartName,
		Text:        chat.LastMessageText,
		FromPreview: true,
	}

	history, err := r.facade.ChatHistory(ctx, chat.ID)
	if err != nil {
		r.logger.Warn("chat history unavailable, using preview",
			zap.Int64("chat_id", int64(chat.ID)),
			zap.Error(err),
		)
		return preview
	}

	for _, message := range history.Messages {
		if message.ID == chat.LastMessageID {
			return message
		}
	}
	if newest, ok := history.Newest(); ok && newest.ID >= chat.LastMessageID {
		return newest
	}
	return preview
}

func (r *Runner) orderEvents(meta func() domain.EventMeta, deltas []Delta[domain.OrderID, domain.OrderState]) []domain.Event {
	var events []domain.Event
	for _, delta := range deltas {
		switch delta.Kind {
		case Created:
			events = append(events, domain.NewOrderEvent{EventMeta: meta(), Order: delta.Entity})
		case Changed:
			if _, statusChanged := domain.FindChange(delta.Changes, domain.FieldStatus); !statusChanged {
				continue
			}
			events = append(events, domain.OrderStatusChangedEvent{
				EventMeta: meta(),
				Order:     delta.Entity,
				Previous:  delta.Previous.Status,
				Changes:   delta.Changes,
			})
		}
	}
	return events
}

func initialChatEvents(meta func() domain.EventMeta, snapshot ChatSnapshot) []domain.Event {
	events := make([]domain.Event, 0, len(snapshot.Entities))
	for _, id := range sortedIDs(snapshot.Entities) {
		events = append(events, domain.InitialChatEvent{EventMeta: meta(), Chat: snapshot.Entities[id]})
	}
	return events
}

func initialOrderEvents(meta func() domain.EventMeta, snapshot OrderSnapshot) []domain.Event {
	events := make([]domain.Event, 0, len(snapshot.Entities))
	for _, id := range sortedIDs(snapshot.Entities) {
		events = append(events, domain.InitialOrderEvent{EventMeta: meta(), Order: snapshot.Entities[id]})
	}
	return events
}

// Ignore suppresses the NewMessageEvent for one message, typically one this
// program sent itself. Each entry is consumed by the first match.
func (r *Runner) Ignore(chatID domain.ChatID, messageID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignored[ignoreKey{chat: chatID, message: messageID}] = struct{}{}
}

// IgnoreSent has the shape of an account.OnSent hook.
func (r *Runner) IgnoreSent(message domain.Message) {
	r.Ignore(message.ChatID, message.ID)
}

func (r *Runner) consumeIgnored(chatID domain.ChatID, messageID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ignoreKey{chat: chatID, message: messageID}
	if _, ok := r.ignored[key]; !ok {
		return false
	}
	delete(r.ignored, key)
	return true
}

// pruneIgnored drops entries for chatID the chat has already moved past;
// they can no longer match.
func (r *Runner) pruneIgnored(chatID domain.ChatID, lastMessageID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.ignored {
		if key.chat == chatID && key.message <= lastMessageID {
			delete(r.ignored, key)
		}
	}
}

func advanced(change domain.FieldChange) bool {
	before, err := strconv.ParseInt(change.Old, 10, 64)
	if err != nil {
		return true
	}
	after, err := strconv.ParseInt(change.New, 10, 64)
	if err != nil {
		return false
	}
	return after > before
}
