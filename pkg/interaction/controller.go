package interaction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klokku/gridplanner/internal/event_bus"
	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/geometry"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

var ErrCellOutOfRange = errors.New("cell is outside of the grid")

// PeriodProvider tells the controller which month newly created events belong to.
type PeriodProvider interface {
	Period() schedule.Period
}

// View is the state the presentation layer renders.
type View struct {
	Events          []schedule.Event
	Provisional     *schedule.Event
	PendingDeletion *int64
}

// Controller turns pointer interactions into event geometry and clock times and
// commits the results to the store. All entry points are serialised.
type Controller struct {
	mu sync.Mutex

	store     *schedule.Store
	scale     geometry.HourScale
	resources int
	periods   PeriodProvider
	clock     utils.Clock

	pointers *event_bus.EventBus
	changes  *event_bus.EventBus

	session         *session
	pendingDeletion *int64
}

func NewController(
	store *schedule.Store,
	scale geometry.HourScale,
	resources int,
	periods PeriodProvider,
	changes *event_bus.EventBus,
	clock utils.Clock,
) *Controller {
	return &Controller{
		store:     store,
		scale:     scale,
		resources: resources,
		periods:   periods,
		clock:     clock,
		pointers:  event_bus.NewEventBus(),
		changes:   changes,
	}
}

// BeginCreate starts a creation drag in the cell of (resource, day). The
// pointer's offset from the cell's left edge becomes the event's start.
// A drag that is still open is aborted first.
func (c *Controller) BeginCreate(ctx context.Context, pointerX float64, cell geometry.Rect, resource, day int) (schedule.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	period := c.periods.Period()
	if resource < 0 || resource >= c.resources || day < 0 || day >= period.DaysInMonth() {
		return schedule.Event{}, fmt.Errorf("%w: resource %d, day %d", ErrCellOutOfRange, resource, day)
	}

	if c.session != nil {
		log.Debugf("Aborting unfinished interaction session %s", c.session.id)
		c.closeSession()
	}

	startX := pointerX - cell.Left
	provisional := schedule.Event{
		Id:       c.store.NextId(c.clock.Now()),
		Resource: resource,
		Day:      day,
		Start:    startX,
		Width:    0,
		Color:    schedule.ColorForResource(resource),
		Month:    period.Month,
		Year:     period.Year,
	}

	s := newSession(provisional, startX, cell)
	s.listen(c.pointers, c.onPointerMove, c.onPointerRelease)
	c.session = s
	log.Debugf("Started interaction session %s at resource %d, day %d, x %.1f", s.id, resource, day, startX)

	return provisional, nil
}

// OnCreateMove routes a pointer move to the open creation drag and returns the
// updated provisional event. It reports false when no drag is open.
func (c *Controller) OnCreateMove(ctx context.Context, pointerX float64) (schedule.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		log.Trace("Pointer move without an interaction session, dropping")
		return schedule.Event{}, false
	}
	if !c.publishPointer(ctx, event_bus.PointerMovedType, event_bus.PointerMoved{X: pointerX}) {
		c.onPointerMove(s, pointerX)
	}
	return s.provisional, true
}

// EndCreate routes a pointer release to the open creation drag. It returns the
// committed event, or nil when the drag ended without horizontal movement or no
// drag was open. The session is closed in every case.
func (c *Controller) EndCreate(ctx context.Context, pointerX float64) *schedule.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		log.Trace("Pointer release without an interaction session, dropping")
		return nil
	}
	c.publishPointer(ctx, event_bus.PointerReleasedType, event_bus.PointerReleased{X: pointerX})
	if !s.released {
		// the release subscription did not run, e.g. the context was cancelled
		c.finish(ctx, s, pointerX)
	}
	return s.committed
}

// AbortCreate discards the open creation drag without committing anything.
func (c *Controller) AbortCreate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return false
	}
	log.Debugf("Interaction session %s aborted", c.session.id)
	c.closeSession()
	return true
}

// Provisional returns the event being drawn by the open creation drag.
func (c *Controller) Provisional() (schedule.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return schedule.Event{}, false
	}
	return c.session.provisional, true
}

// Resize replaces the geometry of an event. The clock times come from the
// presentation layer and are clamped to [0, 24]. Unknown ids are ignored.
func (c *Controller) Resize(ctx context.Context, id int64, newWidth, newStart, rawStartTime, rawEndTime float64) (schedule.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated, ok := c.store.UpdateById(id, func(e *schedule.Event) {
		e.Width = math.Max(newWidth, 0)
		e.Start = newStart
		e.StartTime = geometry.ClampHour(rawStartTime)
		e.EndTime = geometry.ClampHour(rawEndTime)
	})
	if !ok {
		log.Debugf("Resize of unknown event %d ignored", id)
		return schedule.Event{}, false
	}
	c.publishChange(ctx, event_bus.MutationResize, id)
	return updated, true
}

// Move places an event at a new offset in a new cell. Resource, day, color and
// clock times change in one update. Unknown ids and cells outside the grid are
// ignored.
func (c *Controller) Move(ctx context.Context, id int64, newStart float64, newResource, newDay int) (schedule.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.move(ctx, id, newStart, newResource, newDay)
}

// Drop resolves the cell under a drop position, measured from the first event
// cell of the grid, and moves the event there.
func (c *Controller) Drop(ctx context.Context, id int64, x, y, cellWidth, cellHeight float64) (schedule.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cellWidth <= 0 || cellHeight <= 0 {
		log.Debugf("Drop of event %d with empty cell size ignored", id)
		return schedule.Event{}, false
	}
	target := geometry.ResolveDrop(x, y, cellWidth, cellHeight)
	return c.move(ctx, id, target.Start, target.Resource, target.Day)
}

func (c *Controller) move(ctx context.Context, id int64, newStart float64, newResource, newDay int) (schedule.Event, bool) {
	current, ok := c.store.Get(id)
	if !ok {
		log.Debugf("Move of unknown event %d ignored", id)
		return schedule.Event{}, false
	}
	days := schedule.Period{Year: current.Year, Month: current.Month}.DaysInMonth()
	if newResource < 0 || newResource >= c.resources || newDay < 0 || newDay >= days {
		log.Debugf("Move of event %d to resource %d, day %d is outside of the grid, ignored", id, newResource, newDay)
		return schedule.Event{}, false
	}

	updated, ok := c.store.UpdateById(id, func(e *schedule.Event) {
		interval := c.scale.Interval(newStart, e.Width)
		e.Start = newStart
		e.Resource = newResource
		e.Day = newDay
		e.Color = schedule.ColorForResource(newResource)
		e.StartTime = interval.StartTime
		e.EndTime = interval.EndTime
	})
	if !ok {
		return schedule.Event{}, false
	}
	c.publishChange(ctx, event_bus.MutationMove, id)
	return updated, true
}

// RequestDelete marks an event for deletion until it is confirmed or
// cancelled. A newer request replaces the pending one; a request for an
// unknown id leaves the pending one in place.
func (c *Controller) RequestDelete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store.Get(id); !ok {
		log.Debugf("Delete request for unknown event %d ignored", id)
		return false
	}
	c.pendingDeletion = &id
	return true
}

// ConfirmDelete removes the pending event. It reports whether an event was removed.
func (c *Controller) ConfirmDelete(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingDeletion == nil {
		return false
	}
	id := *c.pendingDeletion
	c.pendingDeletion = nil
	if !c.store.RemoveById(id) {
		log.Debugf("Pending deletion of event %d confirmed after it was gone", id)
		return false
	}
	c.publishChange(ctx, event_bus.MutationDelete, id)
	return true
}

func (c *Controller) CancelDelete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasPending := c.pendingDeletion != nil
	c.pendingDeletion = nil
	return wasPending
}

func (c *Controller) PendingDeletion() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingDeletion == nil {
		return 0, false
	}
	return *c.pendingDeletion, true
}

// View returns the committed events of period together with the interaction state.
func (c *Controller) View(period schedule.Period) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{Events: c.store.InPeriod(period)}
	if c.session != nil {
		provisional := c.session.provisional
		view.Provisional = &provisional
	}
	if c.pendingDeletion != nil {
		id := *c.pendingDeletion
		view.PendingDeletion = &id
	}
	return view
}

// onPointerMove and onPointerRelease run inside Publish, with c.mu already held.
func (c *Controller) onPointerMove(s *session, x float64) {
	width := s.widthAt(x)
	interval := c.scale.Interval(s.provisional.Start, width)
	s.provisional.Width = width
	s.provisional.StartTime = interval.StartTime
	s.provisional.EndTime = interval.EndTime
	s.provisional.Color = schedule.ColorForResource(s.provisional.Resource)
}

func (c *Controller) onPointerRelease(ctx context.Context, s *session, x float64) {
	c.finish(ctx, s, x)
}

func (c *Controller) finish(ctx context.Context, s *session, x float64) {
	defer c.closeSession()

	c.onPointerMove(s, x)
	if s.provisional.Width <= 0 {
		log.Debugf("Interaction session %s ended without width, nothing created", s.id)
		return
	}

	event := s.provisional
	if err := c.store.Add(event); err != nil {
		log.Errorf("failed to commit event %d: %v", event.Id, err)
		return
	}
	s.committed = &event
	log.Debugf("Event %d created at resource %d, day %d (%.2f-%.2f)", event.Id, event.Resource, event.Day, event.StartTime, event.EndTime)
	c.publishChange(ctx, event_bus.MutationCreate, event.Id)
}

func (c *Controller) closeSession() {
	if c.session == nil {
		return
	}
	c.session.release()
	c.session = nil
}

// publishPointer reports whether the pointer event reached the subscribers.
func (c *Controller) publishPointer(ctx context.Context, eventType event_bus.EventType, data any) bool {
	if err := c.pointers.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to deliver %s: %v", eventType, err)
		return false
	}
	return true
}

func (c *Controller) publishChange(ctx context.Context, mutation event_bus.Mutation, id int64) {
	if c.changes == nil {
		return
	}
	// persist even when the request that caused the change is cancelled
	ctx = context.WithoutCancel(ctx)
	if err := c.changes.Publish(event_bus.NewEvent(ctx, event_bus.ScheduleChangedType, event_bus.ScheduleChanged{Mutation: mutation, EventId: id})); err != nil {
		log.Warnf("failed to publish %s of event %d: %v", mutation, id, err)
	}
}

// pointerSubscriptions is used by tests to check that finished drags leave no listeners behind.
func (c *Controller) pointerSubscriptions() int {
	return c.pointers.SubscriberCount(event_bus.PointerMovedType) + c.pointers.SubscriberCount(event_bus.PointerReleasedType)
}
