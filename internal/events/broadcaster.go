package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Broadcaster fans events out to in-process subscribers such as SSE clients.
// A subscriber whose buffer is full misses the event rather than blocking
// the publisher.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int]chan ChangeEvent
	nextID int
	buffer int
	closed bool
	logger *zap.Logger
}

func NewBroadcaster(buffer int, logger *zap.Logger) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		subs:   make(map[int]chan ChangeEvent),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe returns a channel of future events and a function that ends the
// subscription. The channel is closed on unsubscribe or Close.
func (b *Broadcaster) Subscribe() (<-chan ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ChangeEvent, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *Broadcaster) Publish(_ context.Context, event ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Dropping event for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("event_type", event.Type()))
		}
	}
	return nil
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
