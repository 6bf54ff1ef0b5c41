// Package events implements the ephemeral event channels systems use to
// communicate within and across scheduler phases: written during a phase,
// drained at the next read boundary, each consumed at most once per reader.
package events

import (
	"reflect"
	"sync"
)

// Bus is a typed, per-event-type queue. Draining a type clears its queue,
// which is what gives the "consumed at most once per reader per phase"
// guarantee for the common single-reader-per-event-type case.
type Bus struct {
	mu     sync.Mutex
	queues map[reflect.Type][]any
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{queues: make(map[reflect.Type][]any)}
}

// Publish appends ev to its type's queue.
func Publish[T any](b *Bus, ev T) {
	t := reflect.TypeFor[T]()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queues[t] = append(b.queues[t], ev)
}

// Drain returns and clears every pending event of type T.
func Drain[T any](b *Bus) []T {
	t := reflect.TypeFor[T]()
	b.mu.Lock()
	raw := b.queues[t]
	delete(b.queues, t)
	b.mu.Unlock()

	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out
}

// Peek returns every pending event of type T without clearing the queue.
func Peek[T any](b *Bus) []T {
	t := reflect.TypeFor[T]()
	b.mu.Lock()
	raw := b.queues[t]
	b.mu.Unlock()

	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out
}
