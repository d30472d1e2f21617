package board

import "github.com/hylla/choreboard/internal/domain"

// SwipeThreshold is the displacement a release must exceed to commit a swipe.
const SwipeThreshold = 80

// rotationDivisor converts displacement into degrees of tilt while dragging.
const rotationDivisor = 25

// settleDistance and settleRotation describe the fly-off pose after a commit.
const (
	settleDistance = 400
	settleRotation = 12
)

// GestureOutcome is the result of feeding one event to the swipe tracker.
type GestureOutcome int

// GestureOutcome values.
const (
	GestureIgnored GestureOutcome = iota
	GestureStarted
	GestureMoved
	GestureCommitted
	GestureCancelled
)

// GestureResult reports what one event did to a card's drag session.
type GestureResult struct {
	Outcome      GestureOutcome
	Status       domain.Status
	Displacement int
}

// gestureSession is the ephemeral state of one drag.
type gestureSession struct {
	startX   int
	currentX int
}

// GestureTracker turns pointer streams into swipe decisions, one session per card.
type GestureTracker struct {
	sessions map[int64]*gestureSession
}

// newGestureTracker constructs a tracker with no sessions.
func newGestureTracker() *GestureTracker {
	return &GestureTracker{sessions: map[int64]*gestureSession{}}
}

// Decide maps a release displacement to a status. ok is false when the swipe
// does not clear the threshold.
func Decide(displacement int) (domain.Status, bool) {
	switch {
	case displacement > SwipeThreshold:
		return domain.StatusDone, true
	case displacement < -SwipeThreshold:
		return domain.StatusSkipped, true
	default:
		return "", false
	}
}

// Attach binds the tracker to card. It reports false when already bound.
func (g *GestureTracker) Attach(card *Card) bool {
	if card.gestureBound {
		return false
	}
	card.gestureBound = true
	return true
}

// Dragging reports whether card has an open drag session.
func (g *GestureTracker) Dragging(cardID int64) bool {
	_, ok := g.sessions[cardID]
	return ok
}

// Handle advances card's drag state machine by one event.
func (g *GestureTracker) Handle(card *Card, ev InputEvent) GestureResult {
	if !card.gestureBound {
		return GestureResult{}
	}
	switch ev.Kind {
	case InputPress:
		return g.start(card, ev)
	case InputMove:
		return g.move(card, ev)
	case InputRelease:
		return g.release(card, ev)
	case InputCancel:
		return g.cancel(card)
	default:
		return GestureResult{}
	}
}

func (g *GestureTracker) start(card *Card, ev InputEvent) GestureResult {
	if !ev.primary() || card.Locked || card.InFlight {
		return GestureResult{}
	}
	if _, ok := g.sessions[card.ID]; ok {
		return GestureResult{}
	}
	g.sessions[card.ID] = &gestureSession{startX: ev.X, currentX: ev.X}
	card.resetVisual()
	card.Dragging = true
	return GestureResult{Outcome: GestureStarted}
}

func (g *GestureTracker) move(card *Card, ev InputEvent) GestureResult {
	session, ok := g.sessions[card.ID]
	if !ok {
		return GestureResult{}
	}
	session.currentX = ev.X
	delta := session.currentX - session.startX
	card.Offset = delta
	card.Rotation = float64(delta) / rotationDivisor
	return GestureResult{Outcome: GestureMoved, Displacement: delta}
}

func (g *GestureTracker) release(card *Card, ev InputEvent) GestureResult {
	session, ok := g.sessions[card.ID]
	if !ok {
		return GestureResult{}
	}
	delete(g.sessions, card.ID)
	if ev.positioned() {
		session.currentX = ev.X
	}
	delta := session.currentX - session.startX
	card.Dragging = false

	status, ok := Decide(delta)
	if !ok {
		card.resetVisual()
		return GestureResult{Outcome: GestureCancelled, Displacement: delta}
	}
	return GestureResult{Outcome: GestureCommitted, Status: status, Displacement: delta}
}

func (g *GestureTracker) cancel(card *Card) GestureResult {
	if _, ok := g.sessions[card.ID]; !ok {
		return GestureResult{}
	}
	delete(g.sessions, card.ID)
	card.resetVisual()
	return GestureResult{Outcome: GestureCancelled}
}

// settle puts card into the fly-off pose for a committed swipe.
func settle(card *Card, status domain.Status) {
	direction := 1
	if status == domain.StatusSkipped {
		direction = -1
	}
	card.Dragging = false
	card.Settling = true
	card.SettleDirection = direction
	card.Offset = direction * settleDistance
	card.Rotation = float64(direction * settleRotation)
}
