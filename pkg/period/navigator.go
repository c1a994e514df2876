package period

import (
	"context"
	"sync"
	"time"

	"github.com/klokku/gridplanner/internal/event_bus"
	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Navigator holds the date selected in the grid header. The grid shows the
// month containing that date.
type Navigator struct {
	mu       sync.RWMutex
	selected time.Time
	clock    utils.Clock
	bus      *event_bus.EventBus
}

// NewNavigator starts at the restored date when there is one, otherwise at today.
func NewNavigator(clock utils.Clock, bus *event_bus.EventBus, restored *time.Time) *Navigator {
	selected := clock.Now()
	if restored != nil {
		selected = *restored
	}
	return &Navigator{
		selected: utils.DateOf(selected),
		clock:    clock,
		bus:      bus,
	}
}

func (n *Navigator) Selected() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.selected
}

func (n *Navigator) Period() schedule.Period {
	return schedule.PeriodOf(n.Selected())
}

func (n *Navigator) Select(ctx context.Context, date time.Time) time.Time {
	return n.update(ctx, func(time.Time) time.Time { return utils.DateOf(date) })
}

// Next moves to the first day of the following month.
func (n *Navigator) Next(ctx context.Context) time.Time {
	return n.update(ctx, func(current time.Time) time.Time {
		return time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	})
}

// Prev moves to the first day of the previous month.
func (n *Navigator) Prev(ctx context.Context) time.Time {
	return n.update(ctx, func(current time.Time) time.Time {
		return time.Date(current.Year(), current.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	})
}

func (n *Navigator) Today(ctx context.Context) time.Time {
	return n.update(ctx, func(time.Time) time.Time { return utils.Today(n.clock) })
}

func (n *Navigator) update(ctx context.Context, next func(current time.Time) time.Time) time.Time {
	n.mu.Lock()
	previous := n.selected
	n.selected = next(previous)
	selected := n.selected
	n.mu.Unlock()

	if selected.Equal(previous) {
		return selected
	}
	log.Debugf("Selected date changed from %s to %s", previous.Format(time.DateOnly), selected.Format(time.DateOnly))
	if n.bus != nil {
		err := n.bus.Publish(event_bus.NewEvent(context.WithoutCancel(ctx), event_bus.SelectedDateChangedType, event_bus.SelectedDateChanged{Date: selected}))
		if err != nil {
			log.Warnf("failed to publish selected date change: %v", err)
		}
	}
	return selected
}
