package updater

import (
	"cmp"
	"maps"
	"slices"

	"github.com/Halone228/funpay-api/internal/domain"
)

type DeltaKind int

const (
	Created DeltaKind = iota + 1
	Changed
)

func (k DeltaKind) String() string {
	switch k {
	case Created:
		return "created"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Delta is one entity that differs between two consecutive snapshots.
// Previous is the zero value for Created deltas.
type Delta[K cmp.Ordered, V domain.Tracked] struct {
	Kind     DeltaKind
	ID       K
	Entity   V
	Previous V
	Changes  []domain.FieldChange
}

// Diff compares two snapshots of one domain. Nothing is reported when either
// side is unavailable, and ids missing from cur produce no delta. Deltas come
// out in ascending id order.
func Diff[K cmp.Ordered, V domain.Tracked](prev, cur Snapshot[K, V]) []Delta[K, V] {
	if !prev.Available || !cur.Available {
		return nil
	}

	var deltas []Delta[K, V]
	for _, id := range sortedIDs(cur.Entities) {
		entity := cur.Entities[id]
		previous, existed := prev.Entities[id]
		if !existed {
			deltas = append(deltas, Delta[K, V]{Kind: Created, ID: id, Entity: entity})
			continue
		}

		changes := compareFields(previous.TrackedFields(), entity.TrackedFields())
		if len(changes) == 0 {
			continue
		}
		deltas = append(deltas, Delta[K, V]{Kind: Changed, ID: id, Entity: entity, Previous: previous, Changes: changes})
	}
	return deltas
}

func compareFields(prev, cur []domain.Field) []domain.FieldChange {
	old := make(map[string]string, len(prev))
	for _, field := range prev {
		old[field.Name] = field.Value
	}

	var changes []domain.FieldChange
	for _, field := range cur {
		if value, ok := old[field.Name]; !ok || value != field.Value {
			changes = append(changes, domain.FieldChange{Field: field.Name, Old: value, New: field.Value})
		}
	}
	return changes
}

func sortedIDs[K cmp.Ordered, V any](entities map[K]V) []K {
	return slices.Sorted(maps.Keys(entities))
}
