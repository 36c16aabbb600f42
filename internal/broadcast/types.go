package broadcast

import (
	"errors"
	"time"

	"github.com/dgnsrekt/catalog-stream/internal/store"
)

var (
	// ErrClosed is returned by Subscribe after the broadcaster has been closed.
	ErrClosed = errors.New("broadcaster closed")

	// ErrSubscriptionClosed is returned by Next once the subscription has been
	// released, either by the consumer or by broadcaster shutdown.
	ErrSubscriptionClosed = errors.New("subscription closed")
)

const DefaultQueueSize = 256

// Event is one successfully created record, as appended to the broadcast log.
// Consumers share the Record value and must not modify its Cast slice.
type Event struct {
	Sequence    uint64       `json:"sequence"`
	Record      store.Record `json:"record"`
	PublishedAt time.Time    `json:"published_at"`
}

// Options controls per-subscriber buffering and log retention.
type Options struct {
	// QueueSize is the capacity of each subscription's delivery queue.
	// Zero or negative selects DefaultQueueSize.
	QueueSize int

	// Retention caps the number of events kept for replay. Zero keeps every
	// event for the life of the process.
	Retention int
}

// Stats is a point-in-time view of the broadcaster.
type Stats struct {
	Retained      int    `json:"retained"`
	FirstSequence uint64 `json:"first_sequence"`
	NextSequence  uint64 `json:"next_sequence"`
	Subscribers   int    `json:"subscribers"`
}
