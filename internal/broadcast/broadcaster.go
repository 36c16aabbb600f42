// Package broadcast fans newly created records out to stream subscribers.
//
// The broadcaster owns an append-only log of events. Every subscription
// starts at the oldest retained event, replays the backlog and then follows
// live publishes. Each subscription has its own pump goroutine that moves
// events from the shared log into a bounded queue, so a consumer that stops
// reading only stalls its own pump.
package broadcast

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/metrics"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// Broadcaster holds the event log and the set of active subscriptions.
type Broadcaster struct {
	queueSize int
	retention int
	logger    *zap.Logger

	mu     sync.RWMutex
	log    []Event // log[i].Sequence == first+i
	first  uint64
	next   uint64
	wake   chan struct{} // closed and replaced on every publish and on Close
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// New creates a Broadcaster. The caller owns it and must call Close on shutdown.
func New(opts Options, logger *zap.Logger) *Broadcaster {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Retention < 0 {
		opts.Retention = 0
	}
	return &Broadcaster{
		queueSize: opts.QueueSize,
		retention: opts.Retention,
		logger:    logger,
		first:     1,
		next:      1,
		wake:      make(chan struct{}),
		subs:      make(map[uint64]*Subscription),
	}
}

// Publish appends rec to the log and wakes every subscription pump. It never
// waits for consumers. Publishing to a closed broadcaster is a no-op.
func (b *Broadcaster) Publish(rec store.Record) Event {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug("publish after close ignored", zap.String("record_id", rec.ID))
		return Event{}
	}

	ev := Event{
		Sequence:    b.next,
		Record:      rec.Clone(),
		PublishedAt: time.Now().UTC(),
	}
	b.next++
	b.log = append(b.log, ev)

	if b.retention > 0 && len(b.log) > b.retention {
		evict := len(b.log) - b.retention
		for i := 0; i < evict; i++ {
			b.log[i] = Event{}
		}
		b.log = b.log[evict:]
		b.first += uint64(evict)
	}

	close(b.wake)
	b.wake = make(chan struct{})

	retained := len(b.log)
	subscribers := len(b.subs)
	b.mu.Unlock()

	metrics.EventsPublishedTotal.Inc()
	metrics.RetainedEvents.Set(float64(retained))

	b.logger.Debug("event published",
		zap.Uint64("sequence", ev.Sequence),
		zap.String("record_id", ev.Record.ID),
		zap.Int("subscribers", subscribers),
	)
	return ev
}

// Subscribe registers a new subscription positioned at the oldest retained
// event. Registration and log append share one lock, so an event published
// concurrently is delivered exactly once: from the backlog if it was appended
// first, live otherwise.
func (b *Broadcaster) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	b.nextID++
	sub := &Subscription{
		id:        b.nextID,
		b:         b,
		ch:        make(chan Event, b.queueSize),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
		cursor:    b.first,
		createdAt: time.Now(),
	}
	b.subs[sub.id] = sub
	backlog := len(b.log)
	total := len(b.subs)
	b.mu.Unlock()

	metrics.ActiveSubscriptions.Inc()
	go sub.pump()

	b.logger.Debug("subscription added",
		zap.Uint64("subscription", sub.id),
		zap.Int("backlog", backlog),
		zap.Int("subscribers", total),
	)
	return sub, nil
}

// Unsubscribe removes sub from the active set and discards anything still
// queued for it. It is safe to call more than once.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	_, ok := b.subs[sub.id]
	delete(b.subs, sub.id)
	remaining := len(b.subs)
	b.mu.Unlock()

	sub.stop()
	if !ok {
		return
	}

	metrics.ActiveSubscriptions.Dec()
	b.logger.Debug("subscription removed",
		zap.Uint64("subscription", sub.id),
		zap.Duration("age", time.Since(sub.createdAt)),
		zap.Int("subscribers", remaining),
	)
}

// Close ends every subscription and rejects further subscribes. The log is
// released.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.wake)
	subs := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[uint64]*Subscription)
	b.log = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
		metrics.ActiveSubscriptions.Dec()
	}
	metrics.RetainedEvents.Set(0)

	b.logger.Info("broadcaster closed", zap.Int("subscriptions_ended", len(subs)))
}

// Stats returns the current log and subscriber counts.
func (b *Broadcaster) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{
		Retained:      len(b.log),
		FirstSequence: b.first,
		NextSequence:  b.next,
		Subscribers:   len(b.subs),
	}
}

// read returns the event at cursor. skipped is the number of events evicted
// before the cursor could reach them; the caller advances its cursor by that
// amount. When the cursor is at the head of the log, wait is closed on the
// next publish.
func (b *Broadcaster) read(cursor uint64) (ev Event, skipped uint64, wait <-chan struct{}, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return Event{}, 0, nil, ErrClosed
	}
	if cursor < b.first {
		skipped = b.first - cursor
		cursor = b.first
	}
	if cursor >= b.next {
		return Event{}, skipped, b.wake, nil
	}
	return b.log[cursor-b.first], skipped, nil, nil
}
