package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/metrics"
)

// Subscription is one consumer's view of the broadcast log. It is owned by a
// single consumer and must be released with Close.
type Subscription struct {
	id        uint64
	b         *Broadcaster
	ch        chan Event
	done      chan struct{}
	exited    chan struct{}
	stopOnce  sync.Once
	cursor    uint64 // owned by pump
	dropped   atomic.Uint64
	createdAt time.Time
}

// ID identifies the subscription within its broadcaster.
func (s *Subscription) ID() uint64 { return s.id }

// C returns the delivery queue. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Event { return s.ch }

// Done is closed once the subscription has been released.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Dropped reports how many events were evicted from a capped log before this
// subscription could receive them.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Next blocks until the next event is available, ctx is done, or the
// subscription is released.
func (s *Subscription) Next(ctx context.Context) (Event, error) {
	select {
	case <-s.done:
		return Event{}, ErrSubscriptionClosed
	default:
	}

	select {
	case <-s.done:
		return Event{}, ErrSubscriptionClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev, ok := <-s.ch:
		if !ok {
			return Event{}, ErrSubscriptionClosed
		}
		return ev, nil
	}
}

// Close releases the subscription. Equivalent to Broadcaster.Unsubscribe.
func (s *Subscription) Close() {
	s.b.Unsubscribe(s)
}

func (s *Subscription) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// pump copies events from the log into the delivery queue in sequence order.
// It is the only sender on s.ch and blocks only on this subscription's queue.
func (s *Subscription) pump() {
	defer func() {
		for {
			select {
			case <-s.ch:
			default:
				close(s.ch)
				close(s.exited)
				return
			}
		}
	}()

	for {
		ev, skipped, wait, err := s.b.read(s.cursor)
		if err != nil {
			return
		}
		if skipped > 0 {
			s.cursor += skipped
			s.dropped.Add(skipped)
			metrics.EventsDroppedTotal.Add(float64(skipped))
			s.b.logger.Warn("subscriber fell behind retention window",
				zap.Uint64("subscription", s.id),
				zap.Uint64("skipped", skipped),
			)
		}
		if wait != nil {
			select {
			case <-wait:
				continue
			case <-s.done:
				return
			}
		}

		select {
		case s.ch <- ev:
			s.cursor = ev.Sequence + 1
		case <-s.done:
			return
		}
	}
}
