package event_bus

import "time"

const (
	// ScheduleChangedType is published after every committed change to the event collection.
	ScheduleChangedType EventType = "schedule.changed"
	// SelectedDateChangedType is published when the active date of the grid changes.
	SelectedDateChangedType EventType = "period.selected"

	PointerMovedType    EventType = "pointer.moved"
	PointerReleasedType EventType = "pointer.released"
)

type Mutation string

const (
	MutationCreate Mutation = "create"
	MutationResize Mutation = "resize"
	MutationMove   Mutation = "move"
	MutationDelete Mutation = "delete"
)

type ScheduleChanged struct {
	Mutation Mutation
	EventId  int64
}

type SelectedDateChanged struct {
	Date time.Time
}

// PointerMoved and PointerReleased carry the pointer's horizontal position in
// the same coordinate space as the cell rectangle of the drag.
type PointerMoved struct {
	X float64
}

type PointerReleased struct {
	X float64
}
