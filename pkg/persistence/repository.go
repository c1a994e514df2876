package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/gridplanner/internal/event_bus"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Repository reads and writes the schedule state through a KeyValueStore.
// Read problems degrade to empty state and write problems are reported to the
// caller only; none of them is fatal.
type Repository struct {
	kv KeyValueStore
}

func NewRepository(kv KeyValueStore) *Repository {
	return &Repository{kv: kv}
}

// LoadEvents returns the persisted events. Missing, unreadable or malformed data yields an empty collection.
func (r *Repository) LoadEvents(ctx context.Context) []schedule.Event {
	data, found, err := r.kv.Get(ctx, EventsKey)
	if err != nil {
		log.Errorf("failed to read stored events, starting with an empty schedule: %v", err)
		return []schedule.Event{}
	}
	if !found {
		log.Debug("No stored events found")
		return []schedule.Event{}
	}

	var events []schedule.Event
	if err := json.Unmarshal(data, &events); err != nil {
		log.Errorf("failed to parse stored events, starting with an empty schedule: %v", err)
		return []schedule.Event{}
	}
	if events == nil {
		events = []schedule.Event{}
	}
	log.Debugf("Loaded %d stored events", len(events))
	return events
}

func (r *Repository) SaveEvents(ctx context.Context, events []schedule.Event) error {
	if events == nil {
		events = []schedule.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := r.kv.Set(ctx, EventsKey, data); err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}
	log.Tracef("Stored %d events", len(events))
	return nil
}

// LoadSelectedDate returns the persisted date, or nil when there is none or it cannot be parsed.
func (r *Repository) LoadSelectedDate(ctx context.Context) *time.Time {
	data, found, err := r.kv.Get(ctx, SelectedDateKey)
	if err != nil {
		log.Errorf("failed to read selected date: %v", err)
		return nil
	}
	if !found {
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		value = strings.TrimSpace(string(data))
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if date, err := time.Parse(layout, value); err == nil {
			return &date
		}
	}
	log.Errorf("failed to parse selected date %q, using today", value)
	return nil
}

func (r *Repository) SaveSelectedDate(ctx context.Context, date time.Time) error {
	data, err := json.Marshal(date.Format(time.DateOnly))
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, SelectedDateKey, data); err != nil {
		return fmt.Errorf("failed to store selected date: %w", err)
	}
	return nil
}

// Subscribe writes the schedule after every committed change published on bus
// and the selected date whenever it changes. Write failures are logged and the
// in-memory state is kept.
func (r *Repository) Subscribe(bus *event_bus.EventBus, events func() []schedule.Event) (unsubscribe func()) {
	unsubscribeChanges := event_bus.SubscribeTyped(bus, event_bus.ScheduleChangedType,
		func(e event_bus.EventT[event_bus.ScheduleChanged]) error {
			if err := r.SaveEvents(e.Context(), events()); err != nil {
				log.Errorf("failed to persist %s of event %d: %v", e.Data.Mutation, e.Data.EventId, err)
			}
			return nil
		})
	unsubscribeDate := event_bus.SubscribeTyped(bus, event_bus.SelectedDateChangedType,
		func(e event_bus.EventT[event_bus.SelectedDateChanged]) error {
			if err := r.SaveSelectedDate(e.Context(), e.Data.Date); err != nil {
				log.Errorf("failed to persist selected date: %v", err)
			}
			return nil
		})
	return func() {
		unsubscribeChanges()
		unsubscribeDate()
	}
}
