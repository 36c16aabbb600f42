package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestBroadcaster(t *testing.T, opts Options) *Broadcaster {
	t.Helper()
	b := New(opts, zap.NewNop())
	t.Cleanup(b.Close)
	return b
}

func rec(name string) store.Record {
	return store.Record{ID: "id-" + name, Name: name, Year: 2000, Cast: []string{name + "-lead"}}
}

// recv reads n events or fails the test after timeout.
func recv(t *testing.T, sub *Subscription, n int) []Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make([]Event, 0, n)
	for len(out) < n {
		ev, err := sub.Next(ctx)
		if err != nil {
			t.Fatalf("Next after %d/%d events: %v", len(out), n, err)
		}
		out = append(out, ev)
	}
	return out
}

func names(events []Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Record.Name
	}
	return out
}

func assertNames(t *testing.T, got []Event, want ...string) {
	t.Helper()
	g := names(got)
	if fmt.Sprint(g) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, g)
	}
}

func assertNoEvent(t *testing.T, sub *Subscription, within time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), within)
	defer cancel()
	if ev, err := sub.Next(ctx); err == nil {
		t.Errorf("expected no event, got %+v", ev)
	}
}

func TestReplayThenLive(t *testing.T) {
	b := newTestBroadcaster(t, Options{})

	b.Publish(rec("A"))
	b.Publish(rec("B"))
	b.Publish(rec("C"))

	sub, err := b.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	assertNames(t, recv(t, sub, 3), "A", "B", "C")

	b.Publish(rec("D"))
	assertNames(t, recv(t, sub, 1), "D")
}

func TestReplayFromStartForEverySubscriber(t *testing.T) {
	b := newTestBroadcaster(t, Options{})

	s1, _ := b.Subscribe()
	defer s1.Close()
	b.Publish(rec("A"))

	s2, _ := b.Subscribe()
	defer s2.Close()
	b.Publish(rec("B"))

	// Both subscriptions start at the beginning of the log.
	assertNames(t, recv(t, s1, 2), "A", "B")
	assertNames(t, recv(t, s2, 2), "A", "B")
	assertNoEvent(t, s1, 50*time.Millisecond)
	assertNoEvent(t, s2, 50*time.Millisecond)
}

func TestSequencesAreContiguous(t *testing.T) {
	b := newTestBroadcaster(t, Options{})
	for i := 0; i < 5; i++ {
		ev := b.Publish(rec(fmt.Sprint(i)))
		if ev.Sequence != uint64(i+1) {
			t.Errorf("publish %d: expected sequence %d, got %d", i, i+1, ev.Sequence)
		}
	}

	stats := b.Stats()
	if stats.Retained != 5 || stats.FirstSequence != 1 || stats.NextSequence != 6 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestPublishCopiesRecord(t *testing.T) {
	b := newTestBroadcaster(t, Options{})
	r := rec("A")
	b.Publish(r)
	r.Cast[0] = "mutated"

	sub, _ := b.Subscribe()
	defer sub.Close()
	got := recv(t, sub, 1)[0]
	if got.Record.Cast[0] != "A-lead" {
		t.Errorf("log shares caller's slice: %v", got.Record.Cast)
	}
}

func TestConcurrentPublishersPreserveLogOrder(t *testing.T) {
	b := newTestBroadcaster(t, Options{QueueSize: 8})

	const producers, perProducer = 8, 200
	const total = producers * perProducer

	subs := make([]*Subscription, 4)
	for i := range subs {
		s, err := b.Subscribe()
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		subs[i] = s
	}

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Publish(rec(fmt.Sprintf("%d-%d", p, i)))
			}
		}(p)
	}

	for _, s := range subs {
		events := recv(t, s, total)
		for i, ev := range events {
			if ev.Sequence != uint64(i+1) {
				t.Fatalf("subscription %d: position %d has sequence %d", s.ID(), i, ev.Sequence)
			}
		}
	}
	wg.Wait()
}

func TestConcurrentSubscribeDeliversExactlyOnce(t *testing.T) {
	for round := 0; round < 20; round++ {
		b := New(Options{QueueSize: 4}, zap.NewNop())

		const total = 300
		const subscribers = 6

		var wg sync.WaitGroup
		results := make(chan error, subscribers)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < total; i++ {
				b.Publish(rec(fmt.Sprint(i)))
			}
		}()

		for i := 0; i < subscribers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sub, err := b.Subscribe()
				if err != nil {
					results <- err
					return
				}
				defer sub.Close()

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				var want uint64 = 1
				for want <= total {
					ev, err := sub.Next(ctx)
					if err != nil {
						results <- fmt.Errorf("after sequence %d: %w", want-1, err)
						return
					}
					if ev.Sequence != want {
						results <- fmt.Errorf("expected sequence %d, got %d", want, ev.Sequence)
						return
					}
					want++
				}
				results <- nil
			}()
		}

		wg.Wait()
		close(results)
		for err := range results {
			if err != nil {
				t.Fatalf("round %d: %v", round, err)
			}
		}
		b.Close()
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := newTestBroadcaster(t, Options{})

	sub, _ := b.Subscribe()
	b.Publish(rec("A"))
	assertNames(t, recv(t, sub, 1), "A")

	sub.Close()
	sub.Close() // idempotent

	b.Publish(rec("B"))

	if _, err := sub.Next(context.Background()); !errors.Is(err, ErrSubscriptionClosed) {
		t.Errorf("expected ErrSubscriptionClosed, got %v", err)
	}

	select {
	case <-sub.exited:
	case <-time.After(time.Second):
		t.Fatal("pump did not exit after unsubscribe")
	}
	if _, ok := <-sub.C(); ok {
		t.Error("expected delivery queue to be closed and drained")
	}

	if got := b.Stats().Subscribers; got != 0 {
		t.Errorf("expected 0 subscribers, got %d", got)
	}
}

func TestDoneClosesOnRelease(t *testing.T) {
	b := newTestBroadcaster(t, Options{})

	closedByConsumer, _ := b.Subscribe()
	closedByShutdown, _ := b.Subscribe()

	select {
	case <-closedByConsumer.Done():
		t.Fatal("Done closed while subscribed")
	default:
	}

	closedByConsumer.Close()
	select {
	case <-closedByConsumer.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Close")
	}

	b.Close()
	select {
	case <-closedByShutdown.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after broadcaster Close")
	}
}

func TestUnsubscribeDiscardsBufferedEvents(t *testing.T) {
	b := newTestBroadcaster(t, Options{QueueSize: 16})

	for i := 0; i < 10; i++ {
		b.Publish(rec(fmt.Sprint(i)))
	}
	sub, _ := b.Subscribe()

	// Give the pump time to fill the queue.
	deadline := time.Now().Add(time.Second)
	for len(sub.C()) < 10 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	b.Unsubscribe(sub)
	if _, err := sub.Next(context.Background()); !errors.Is(err, ErrSubscriptionClosed) {
		t.Errorf("expected buffered events to be discarded, got %v", err)
	}
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	b := newTestBroadcaster(t, Options{QueueSize: 1})

	slow, _ := b.Subscribe()
	defer slow.Close()
	fast, _ := b.Subscribe()
	defer fast.Close()

	const total = 1000
	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 0; i < total; i++ {
			b.Publish(rec(fmt.Sprint(i)))
		}
	}()

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher stalled behind a subscriber that never reads")
	}

	events := recv(t, fast, total)
	if events[total-1].Sequence != total {
		t.Errorf("expected last sequence %d, got %d", total, events[total-1].Sequence)
	}

	// The slow subscriber still gets everything, in order, once it reads.
	slowEvents := recv(t, slow, total)
	for i, ev := range slowEvents {
		if ev.Sequence != uint64(i+1) {
			t.Fatalf("slow subscriber position %d has sequence %d", i, ev.Sequence)
		}
	}
}

func TestNextHonoursContext(t *testing.T) {
	b := newTestBroadcaster(t, Options{})
	sub, _ := b.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := sub.Next(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not return after cancellation")
	}

	// The subscription stays usable after a cancelled wait.
	b.Publish(rec("A"))
	assertNames(t, recv(t, sub, 1), "A")
}

func TestRetentionCapsReplay(t *testing.T) {
	b := newTestBroadcaster(t, Options{Retention: 3})
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		b.Publish(rec(n))
	}

	stats := b.Stats()
	if stats.Retained != 3 || stats.FirstSequence != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	sub, _ := b.Subscribe()
	defer sub.Close()
	assertNames(t, recv(t, sub, 3), "C", "D", "E")
	if sub.Dropped() != 0 {
		t.Errorf("new subscriber should not count evicted history as dropped, got %d", sub.Dropped())
	}
}

func TestRetentionSkipsLaggingSubscriber(t *testing.T) {
	b := newTestBroadcaster(t, Options{QueueSize: 1, Retention: 3})

	sub, _ := b.Subscribe()
	defer sub.Close()

	const total = 10
	for i := 1; i <= total; i++ {
		b.Publish(rec(fmt.Sprint(i)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var received []uint64
	for {
		ev, err := sub.Next(ctx)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if len(received) > 0 && ev.Sequence <= received[len(received)-1] {
			t.Fatalf("sequence went backwards: %v then %d", received, ev.Sequence)
		}
		received = append(received, ev.Sequence)
		if ev.Sequence == total {
			break
		}
	}

	if uint64(len(received))+sub.Dropped() != total {
		t.Errorf("received %d + dropped %d != %d", len(received), sub.Dropped(), total)
	}
	if sub.Dropped() == 0 {
		t.Error("expected the lagging subscriber to skip evicted events")
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	b := New(Options{}, zap.NewNop())

	sub, _ := b.Subscribe()
	waiting := make(chan error, 1)
	go func() {
		_, err := sub.Next(context.Background())
		waiting <- err
	}()

	b.Close()
	b.Close()

	select {
	case err := <-waiting:
		if !errors.Is(err, ErrSubscriptionClosed) {
			t.Errorf("expected ErrSubscriptionClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked consumer not released by Close")
	}

	if _, err := b.Subscribe(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Publish after close is a no-op, and releasing an ended subscription is safe.
	if ev := b.Publish(rec("late")); ev.Sequence != 0 {
		t.Errorf("expected zero event after close, got %+v", ev)
	}
	sub.Close()
}
