package board

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hylla/choreboard/internal/domain"
)

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the board logger.
func WithLogger(logger *log.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSnapBackOnFailure resets a card's drag visual when its request fails.
func WithSnapBackOnFailure(enabled bool) Option {
	return func(b *Board) {
		b.snapBack = enabled
	}
}

// Board owns every card and the components that mutate them. It is not safe
// for concurrent use; the host drives it from a single update loop.
type Board struct {
	cards      map[int64]*Card
	order      []int64
	gestures   *GestureTracker
	holds      *HoldTracker
	partitions *Partitions
	filter     *Filter
	tabs       *TabStrip
	reconciler *Reconciler
	confirming map[int64]bool

	logger   *log.Logger
	snapBack bool
}

// New builds a board from pre-rendered card state and a JSON owner list.
func New(seeds []CardSeed, ownersJSON []byte, opts ...Option) *Board {
	b := &Board{
		cards:      map[int64]*Card{},
		gestures:   newGestureTracker(),
		holds:      newHoldTracker(),
		confirming: map[int64]bool{},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.partitions = newPartitions(b.cards, b.gestures)
	b.filter = newFilter(b.cards, &b.order, b.partitions)
	b.reconciler = newReconciler(b.cards, b.partitions, b.filter, b.logger, b.snapBack)

	for _, seed := range seeds {
		if _, dup := b.cards[seed.ID]; dup {
			b.logger.Warn("skipping duplicate card", "card_id", seed.ID)
			continue
		}
		status := seed.Status
		if !status.Valid() {
			b.logger.Warn("unknown card status, treating as pending", "card_id", seed.ID, "status", status)
			status = domain.StatusPending
		}
		card := &Card{
			ID:     seed.ID,
			Title:  seed.Title,
			Owner:  seed.Owner,
			Status: status,
			Label:  status.Label(),
		}
		b.cards[card.ID] = card
		b.order = append(b.order, card.ID)
		b.partitions.place(card, PartitionActive)
		if status.Resolved() {
			b.partitions.MoveToCompleted(card, status)
		} else {
			b.partitions.MoveToActive(card)
		}
		b.holds.Attach(card)
	}

	owners, err := ParseOwners(ownersJSON)
	if err != nil {
		b.logger.Error("invalid owner list, showing all cards", "err", err)
		owners = nil
	}
	b.tabs = newTabStrip(owners, b.filter)
	b.filter.Apply()
	return b
}

// Card returns a snapshot of one card.
func (b *Board) Card(id int64) (Card, bool) {
	card, ok := b.cards[id]
	if !ok {
		return Card{}, false
	}
	return *card, true
}

// Cards returns snapshots of every card in seed order.
func (b *Board) Cards() []Card {
	out := make([]Card, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.cards[id])
	}
	return out
}

// Members returns the card ids held by part in display order.
func (b *Board) Members(part Partition) []int64 {
	return b.partitions.Members(part)
}

// VisibleCount counts the cards of part not hidden by the filter.
func (b *Board) VisibleCount(part Partition) int {
	return b.partitions.VisibleCount(part)
}

// EmptyIndicatorHidden reports whether part's empty indicator is hidden.
func (b *Board) EmptyIndicatorHidden(part Partition) bool {
	return b.partitions.EmptyIndicatorHidden(part)
}

// Tabs returns the filter selectors in display order.
func (b *Board) Tabs() []Tab {
	return b.tabs.Tabs()
}

// ActiveTab returns the index of the active filter selector.
func (b *Board) ActiveTab() int {
	return b.tabs.Active()
}

// Filter returns the current owner filter and whether one is set.
func (b *Board) Filter() (string, bool) {
	return b.filter.Current()
}

// SelectTab activates filter selector idx.
func (b *Board) SelectTab(idx int) error {
	return b.tabs.Select(idx)
}

// SelectOwner activates the selector for owner, or the show-all selector for "".
func (b *Board) SelectOwner(owner string) error {
	return b.tabs.SelectOwner(owner)
}

// Confirming reports whether a revert confirmation is outstanding for id.
func (b *Board) Confirming(id int64) bool {
	return b.confirming[id]
}

// HoldArmed reports whether id has a dwell timer running.
func (b *Board) HoldArmed(id int64) bool {
	return b.holds.Armed(id)
}

// Dispatch feeds one pointer event addressed to card id into the hold and
// swipe trackers and returns the effects the host must run.
func (b *Board) Dispatch(id int64, ev InputEvent) []Effect {
	card, ok := b.cards[id]
	if !ok {
		return nil
	}
	var effects []Effect
	if arm := b.holds.Handle(card, ev); arm != nil {
		effects = append(effects, *arm)
	}

	result := b.gestures.Handle(card, ev)
	if result.Outcome != GestureCommitted {
		return effects
	}
	settle(card, result.Status)
	send, err := b.reconciler.SetStatus(card, result.Status)
	if err != nil {
		b.logger.Warn("swipe not sent", "card_id", card.ID, "err", err)
		card.resetVisual()
		return effects
	}
	b.logger.Debug("swipe committed", "card_id", card.ID, "status", result.Status, "displacement", result.Displacement)
	return append(effects, send)
}

// HoldElapsed is called by the host when an ArmHold timer fires. A cancelled or
// superseded token yields no effects.
func (b *Board) HoldElapsed(id int64, token uint64) []Effect {
	card, ok := b.cards[id]
	if !ok || !b.holds.Elapsed(id, token) {
		return nil
	}
	if card.Status == domain.StatusPending || card.InFlight {
		return nil
	}
	b.confirming[id] = true
	return []Effect{ConfirmRevert{CardID: id, Prompt: revertPrompt(card)}}
}

// ConfirmRevert accepts an outstanding revert confirmation and requests pending.
func (b *Board) ConfirmRevert(id int64) ([]Effect, error) {
	if !b.confirming[id] {
		return nil, fmt.Errorf("card %d: %w", id, ErrNoPendingConfirm)
	}
	delete(b.confirming, id)
	card, ok := b.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %d: %w", id, ErrUnknownCard)
	}
	send, err := b.reconciler.SetStatus(card, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	return []Effect{send}, nil
}

// DeclineRevert discards an outstanding revert confirmation.
func (b *Board) DeclineRevert(id int64) {
	delete(b.confirming, id)
}

// RequestStatus asks the reconciler to move card id to status.
func (b *Board) RequestStatus(id int64, status domain.Status) ([]Effect, error) {
	card, ok := b.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %d: %w", id, ErrUnknownCard)
	}
	send, err := b.reconciler.SetStatus(card, status)
	if err != nil {
		return nil, err
	}
	return []Effect{send}, nil
}

// CompleteStatus delivers the result of a SendStatus effect.
func (b *Board) CompleteStatus(seq uint64, ack domain.StatusAck, err error) Result {
	return b.reconciler.Complete(seq, ack, err)
}
