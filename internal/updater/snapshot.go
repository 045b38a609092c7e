package updater

import (
	"cmp"
	"context"
	"fmt"

	"github.com/Halone228/funpay-api/internal/account"
	"github.com/Halone228/funpay-api/internal/domain"
)

const DefaultPageCap = 5

// Snapshot is one domain's entities as seen by poll cycle Seq. An unavailable
// snapshot means the fetch failed; it is not the same as an empty one.
type Snapshot[K cmp.Ordered, V domain.Tracked] struct {
	Seq       uint64
	Available bool
	Entities  map[K]V
}

func NewSnapshot[K cmp.Ordered, V domain.Tracked](seq uint64, entities map[K]V) Snapshot[K, V] {
	if entities == nil {
		entities = map[K]V{}
	}
	return Snapshot[K, V]{Seq: seq, Available: true, Entities: entities}
}

func Unavailable[K cmp.Ordered, V domain.Tracked](seq uint64) Snapshot[K, V] {
	return Snapshot[K, V]{Seq: seq}
}

type (
	ChatSnapshot  = Snapshot[domain.ChatID, domain.ChatState]
	OrderSnapshot = Snapshot[domain.OrderID, domain.OrderState]
)

// Builder turns one round of facade calls into per-domain snapshots.
type Builder struct {
	facade  account.Facade
	pageCap int
}

func NewBuilder(facade account.Facade, pageCap int) *Builder {
	if pageCap <= 0 {
		pageCap = DefaultPageCap
	}
	return &Builder{facade: facade, pageCap: pageCap}
}

func (b *Builder) Chats(ctx context.Context, seq uint64) (ChatSnapshot, error) {
	chats, err := b.facade.Chats(ctx)
	if err != nil {
		return Unavailable[domain.ChatID, domain.ChatState](seq), err
	}

	entities := make(map[domain.ChatID]domain.ChatState, len(chats))
	for _, chat := range chats {
		entities[chat.ID] = chat
	}
	return NewSnapshot(seq, entities), nil
}

// Orders follows the sales pagination until the last page or the page cap.
// A failure on any page makes the whole domain unavailable for the cycle,
// since a truncated list would later resurface old orders as new.
func (b *Builder) Orders(ctx context.Context, seq uint64) (OrderSnapshot, error) {
	entities := map[domain.OrderID]domain.OrderState{}
	cursor := ""
	seen := map[string]struct{}{}

	for page := 0; page < b.pageCap; page++ {
		result, err := b.facade.OrdersPage(ctx, cursor)
		if err != nil {
			return Unavailable[domain.OrderID, domain.OrderState](seq), fmt.Errorf("orders page %d: %w", page+1, err)
		}
		for _, order := range result.Orders {
			if _, exists := entities[order.ID]; !exists {
				entities[order.ID] = order
			}
		}

		if result.Next == "" {
			break
		}
		if _, repeated := seen[result.Next]; repeated {
			break
		}
		seen[result.Next] = struct{}{}
		cursor = result.Next
	}

	return NewSnapshot(seq, entities), nil
}
