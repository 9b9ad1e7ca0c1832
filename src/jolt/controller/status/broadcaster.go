// Package status tracks the lifecycle status of a workspace daemon and fans it out to observers.
package status

import (
	"sync"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/factory"
)

// Listener is notified with every accepted status.
type Listener func(status entity.DaemonStatus)

// Subscription is returned by Subscribe.
type Subscription interface {
	// Unsubscribe stops further notifications. It is safe to call more than once.
	Unsubscribe()
}

// Broadcaster holds the current status of one daemon and notifies subscribers when it changes.
type Broadcaster interface {
	// Status returns the current status.
	Status() entity.DaemonStatus
	// SetStatus stores s and notifies subscribers in registration order before returning.
	// Once a terminal status has been stored, further calls are ignored and return false.
	SetStatus(s entity.DaemonStatus) bool
	// Subscribe registers fn for future notifications. Past statuses are not replayed.
	Subscribe(fn Listener) Subscription
}

type listenerEntry struct {
	id uuid.UUID
	fn Listener
}

type broadcaster struct {
	mu        sync.Mutex
	status    entity.DaemonStatus
	listeners []listenerEntry
}

// NewBroadcaster returns a Broadcaster starting in the pending status.
func NewBroadcaster() Broadcaster {
	return &broadcaster{status: entity.DaemonStatusPending}
}

func (b *broadcaster) Status() entity.DaemonStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *broadcaster) SetStatus(s entity.DaemonStatus) bool {
	b.mu.Lock()
	if b.status.IsTerminal() {
		b.mu.Unlock()
		return false
	}
	b.status = s
	listeners := make([]listenerEntry, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	// Listeners may subscribe or unsubscribe from within the callback.
	for _, l := range listeners {
		l.fn(s)
	}
	return true
}

func (b *broadcaster) Subscribe(fn Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := listenerEntry{id: factory.UUID(), fn: fn}
	b.listeners = append(b.listeners, entry)
	return &subscription{broadcaster: b, id: entry.id}
}

func (b *broadcaster) remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

type subscription struct {
	broadcaster *broadcaster
	id          uuid.UUID
	once        sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broadcaster.remove(s.id)
	})
}
