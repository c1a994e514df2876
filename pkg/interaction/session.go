package interaction

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/klokku/gridplanner/internal/event_bus"
	"github.com/klokku/gridplanner/pkg/geometry"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// session is one creation drag: pointer-down, any number of moves, pointer-up.
// It owns its pointer subscriptions and must release them on every exit path.
type session struct {
	id          uuid.UUID
	provisional schedule.Event
	startX      float64
	cell        geometry.Rect
	released    bool
	committed   *schedule.Event
	unsubscribe []func()
}

func newSession(provisional schedule.Event, startX float64, cell geometry.Rect) *session {
	return &session{
		id:          uuid.New(),
		provisional: provisional,
		startX:      startX,
		cell:        cell,
	}
}

// listen subscribes the session to pointer moves and releases on bus.
func (s *session) listen(bus *event_bus.EventBus, onMove func(s *session, x float64), onRelease func(ctx context.Context, s *session, x float64)) {
	s.unsubscribe = append(s.unsubscribe,
		event_bus.SubscribeTyped(bus, event_bus.PointerMovedType, func(e event_bus.EventT[event_bus.PointerMoved]) error {
			onMove(s, e.Data.X)
			return nil
		}),
		event_bus.SubscribeTyped(bus, event_bus.PointerReleasedType, func(e event_bus.EventT[event_bus.PointerReleased]) error {
			onRelease(e.Context(), s, e.Data.X)
			return nil
		}),
	)
}

// widthAt is the provisional width for a pointer at x, never negative.
func (s *session) widthAt(x float64) float64 {
	return math.Max(x-s.cell.Left-s.startX, 0)
}

func (s *session) release() {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil
	s.released = true
	log.Tracef("interaction session %s released", s.id)
}
