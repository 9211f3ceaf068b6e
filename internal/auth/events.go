package auth

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/regdash/internal/registration"
)

// EventType names a session change.
type EventType string

const (
	// EventResolved is published once the initial user lookup finishes.
	// User is nil for a guest.
	EventResolved EventType = "resolved"
	// EventSignedIn is published after a successful registration.
	EventSignedIn EventType = "signed_in"
	// EventSignedOut is published after logout.
	EventSignedOut EventType = "signed_out"
)

// Event is delivered to subscribers, and to the TUI as a tea.Msg.
type Event struct {
	Type      EventType
	User      *registration.User
	Timestamp time.Time
}

const defaultBufferSize = 16

// Broker fans session events out to subscribers. Publish never blocks;
// a subscriber with a full buffer misses the event.
type Broker struct {
	mu         sync.RWMutex
	subs       map[chan Event]struct{}
	done       chan struct{}
	bufferSize int
}

// NewBroker creates a broker with the default per-subscriber buffer.
func NewBroker() *Broker {
	return NewBrokerWithBuffer(defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscribers buffer size events.
func NewBrokerWithBuffer(size int) *Broker {
	return &Broker{
		subs:       make(map[chan Event]struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

// Subscribe returns a channel of events that is closed when ctx ends or
// the broker closes.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	sub := make(chan Event, b.bufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub)
		}
	}()

	return sub
}

// Publish delivers an event to every subscriber.
func (b *Broker) Publish(eventType EventType, user *registration.User) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed() {
		return
	}

	event := Event{Type: eventType, User: user, Timestamp: time.Now()}
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close closes every subscription. Safe to call more than once.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}
	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Listener adapts a subscription to the Bubble Tea update loop. Call Listen
// again after handling each Event to keep receiving.
type Listener struct {
	ctx context.Context
	ch  <-chan Event
}

// NewListener subscribes to broker for the lifetime of ctx.
func NewListener(ctx context.Context, broker *Broker) *Listener {
	return &Listener{ctx: ctx, ch: broker.Subscribe(ctx)}
}

// Listen returns a command that yields the next Event, or nil once the
// subscription ends.
func (l *Listener) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-l.ctx.Done():
			return nil
		case event, ok := <-l.ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}
