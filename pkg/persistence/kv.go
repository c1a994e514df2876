package persistence

import "context"

const (
	EventsKey       = "events"
	SelectedDateKey = "selectedDate"
)

// KeyValueStore is the durable storage the schedule is saved to. Values are
// opaque JSON documents.
type KeyValueStore interface {
	// Get returns the value stored under key. found is false when the key was never written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
