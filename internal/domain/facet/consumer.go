package facet

import (
	"slices"

	"github.com/okian/festboard/internal/domain/model"
)

// Key extracts the comparison keys an entity exposes for one facet. An entity
// may expose several keys, such as every item a participant is enrolled in.
type Key[T any] func(T) []string

// Consumer describes which facets apply to a collection and how to read them.
// Facets without a key are not evaluated for that collection.
type Consumer[T any] struct {
	name string
	keys [facetCount]Key[T]
}

// NewConsumer returns a consumer with no applicable facets.
func NewConsumer[T any](name string) *Consumer[T] {
	return &Consumer[T]{name: name}
}

// With registers k as the key reader for f.
func (c *Consumer[T]) With(f Facet, k Key[T]) *Consumer[T] {
	if f.valid() {
		c.keys[f] = k
	}
	return c
}

// Name identifies the consumer in logs and metrics.
func (c *Consumer[T]) Name() string { return c.name }

// Applies reports whether f is evaluated for this consumer.
func (c *Consumer[T]) Applies(f Facet) bool { return f.valid() && c.keys[f] != nil }

// Matches reports whether e passes every applicable facet in sel.
func (c *Consumer[T]) Matches(e T, sel Selections) bool {
	for _, f := range All {
		if c.keys[f] == nil || len(sel.values[f]) == 0 {
			continue
		}
		if !sel.AllowsAny(f, c.keys[f](e)) {
			return false
		}
	}
	return true
}

// Filter returns the entities of xs matching sel, in their original order.
// With nothing selected the result holds every element of xs.
func Filter[T any](xs []T, c *Consumer[T], sel Selections) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if c.Matches(x, sel) {
			out = append(out, x)
		}
	}
	return out
}

// Options lists the distinct keys of facet f among entities that match every
// other facet. Dropdowns use it so the item list follows the chosen
// categories.
func Options[T any](xs []T, c *Consumer[T], sel Selections, f Facet) []string {
	if !c.Applies(f) {
		return nil
	}
	others := sel.Without(f)

	seen := make(map[string]struct{})
	for _, x := range xs {
		if !c.Matches(x, others) {
			continue
		}
		for _, k := range c.keys[f](x) {
			if k != "" {
				seen[k] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func one(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// Participants filters participants by team, category and enrolled items.
// Performance type and item type follow the enrolled items.
func Participants(idx *model.Index) *Consumer[model.Participant] {
	itemKeys := func(p model.Participant, key func(model.Item) string) []string {
		var out []string
		for _, id := range p.ItemIDs {
			if it, ok := idx.Item(id); ok {
				out = append(out, key(it))
			}
		}
		return out
	}
	return NewConsumer[model.Participant]("participants").
		With(Team, func(p model.Participant) []string { return one(p.TeamID) }).
		With(Category, func(p model.Participant) []string { return one(p.CategoryID) }).
		With(Item, func(p model.Participant) []string { return p.ItemIDs }).
		With(PerformanceType, func(p model.Participant) []string {
			return itemKeys(p, func(it model.Item) string { return string(it.PerformanceType) })
		}).
		With(ItemType, func(p model.Participant) []string {
			return itemKeys(p, func(it model.Item) string { return string(it.Type) })
		})
}

// Items filters items by category, id, performance type and item type.
func Items() *Consumer[model.Item] {
	return NewConsumer[model.Item]("items").
		With(Category, func(it model.Item) []string { return one(it.CategoryID) }).
		With(Item, func(it model.Item) []string { return one(it.ID) }).
		With(PerformanceType, func(it model.Item) []string { return one(string(it.PerformanceType)) }).
		With(ItemType, func(it model.Item) []string { return one(string(it.Type)) })
}

// Schedule filters schedule entries by category, item, date and stage, and by
// the scheduled item's performance type and item type.
func Schedule(idx *model.Index) *Consumer[model.ScheduledEvent] {
	itemKey := func(e model.ScheduledEvent, key func(model.Item) string) []string {
		if it, ok := idx.Item(e.ItemID); ok {
			return one(key(it))
		}
		return nil
	}
	return NewConsumer[model.ScheduledEvent]("schedule").
		With(Category, func(e model.ScheduledEvent) []string {
			if e.CategoryID != "" {
				return one(e.CategoryID)
			}
			return itemKey(e, func(it model.Item) string { return it.CategoryID })
		}).
		With(Item, func(e model.ScheduledEvent) []string { return one(e.ItemID) }).
		With(Date, func(e model.ScheduledEvent) []string { return one(e.Date) }).
		With(Stage, func(e model.ScheduledEvent) []string { return one(e.Stage) }).
		With(PerformanceType, func(e model.ScheduledEvent) []string {
			return itemKey(e, func(it model.Item) string { return string(it.PerformanceType) })
		}).
		With(ItemType, func(e model.ScheduledEvent) []string {
			return itemKey(e, func(it model.Item) string { return string(it.Type) })
		})
}

// Results filters results by category, item, status and item type, and by the
// teams of their winners.
func Results(idx *model.Index) *Consumer[model.Result] {
	return NewConsumer[model.Result]("results").
		With(Category, func(r model.Result) []string { return one(idx.ResultCategory(r)) }).
		With(Item, func(r model.Result) []string { return one(r.ItemID) }).
		With(ResultStatus, func(r model.Result) []string { return one(string(r.Status)) }).
		With(ItemType, func(r model.Result) []string {
			if it, ok := idx.Item(r.ItemID); ok {
				return one(string(it.Type))
			}
			return nil
		}).
		With(Team, func(r model.Result) []string {
			var out []string
			for _, w := range r.Winners {
				if p, ok := idx.Participant(w.ParticipantID); ok && p.TeamID != "" {
					out = append(out, p.TeamID)
				}
			}
			return out
		})
}
