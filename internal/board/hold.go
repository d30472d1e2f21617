package board

import (
	"fmt"
	"time"

	"github.com/hylla/choreboard/internal/domain"
)

// HoldDwell is how long a press must last before a revert is offered.
const HoldDwell = 650 * time.Millisecond

// HoldTracker detects sustained presses on resolved cards.
type HoldTracker struct {
	armed     map[int64]uint64
	nextToken uint64
}

// newHoldTracker constructs a tracker with nothing armed.
func newHoldTracker() *HoldTracker {
	return &HoldTracker{armed: map[int64]uint64{}}
}

// Attach binds the tracker to card. It reports false when already bound.
func (h *HoldTracker) Attach(card *Card) bool {
	if card.holdBound {
		return false
	}
	card.holdBound = true
	return true
}

// Armed reports whether card has a dwell timer running.
func (h *HoldTracker) Armed(cardID int64) bool {
	_, ok := h.armed[cardID]
	return ok
}

// Handle arms or cancels card's dwell timer. It returns the timer to schedule, if any.
func (h *HoldTracker) Handle(card *Card, ev InputEvent) *ArmHold {
	if !card.holdBound {
		return nil
	}
	switch ev.Kind {
	case InputPress:
		if card.Status == domain.StatusPending || card.Dragging || card.InFlight {
			return nil
		}
		h.nextToken++
		h.armed[card.ID] = h.nextToken
		return &ArmHold{CardID: card.ID, Token: h.nextToken, After: HoldDwell}
	case InputRelease, InputLeave, InputCancel:
		delete(h.armed, card.ID)
	}
	return nil
}

// Elapsed consumes the timer identified by token. It reports false for a
// cancelled or superseded timer.
func (h *HoldTracker) Elapsed(cardID int64, token uint64) bool {
	armed, ok := h.armed[cardID]
	if !ok || armed != token {
		return false
	}
	delete(h.armed, cardID)
	return true
}

// revertPrompt builds the confirmation question for card.
func revertPrompt(card *Card) string {
	if card.Owner == "" {
		return fmt.Sprintf("Mark %q back to pending?", card.Title)
	}
	return fmt.Sprintf("Mark %q for %s back to pending?", card.Title, card.Owner)
}
