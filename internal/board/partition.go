package board

import (
	"slices"

	"github.com/hylla/choreboard/internal/domain"
)

// container is one partition's ordered membership plus its empty indicator.
type container struct {
	members     []int64
	emptyHidden bool
}

// Partitions keeps every card in exactly one container consistent with its status.
type Partitions struct {
	cards      map[int64]*Card
	containers [2]container
	gestures   *GestureTracker
}

// newPartitions constructs an empty manager over the shared card table.
func newPartitions(cards map[int64]*Card, gestures *GestureTracker) *Partitions {
	return &Partitions{cards: cards, gestures: gestures}
}

// MoveToActive unlocks card, re-arms its swipe tracker and relocates it to Active.
func (p *Partitions) MoveToActive(card *Card) {
	card.resetVisual()
	card.Locked = false
	card.Class = domain.StatusPending
	p.relocate(card, PartitionActive)
	p.gestures.Attach(card)
	p.RecomputeEmptyStates()
}

// MoveToCompleted locks card and relocates it to Completed with the given status class.
func (p *Partitions) MoveToCompleted(card *Card, status domain.Status) {
	card.resetVisual()
	card.Locked = true
	card.Class = status
	p.relocate(card, PartitionCompleted)
	p.RecomputeEmptyStates()
}

// RecomputeEmptyStates hides each indicator iff its container has a visible card.
func (p *Partitions) RecomputeEmptyStates() {
	for idx := range p.containers {
		p.containers[idx].emptyHidden = p.VisibleCount(Partition(idx)) > 0
	}
}

// VisibleCount counts members of part not hidden by the filter.
func (p *Partitions) VisibleCount(part Partition) int {
	count := 0
	for _, id := range p.containers[part].members {
		if card, ok := p.cards[id]; ok && !card.FilteredHidden {
			count++
		}
	}
	return count
}

// Members returns the card ids held by part in display order.
func (p *Partitions) Members(part Partition) []int64 {
	return slices.Clone(p.containers[part].members)
}

// EmptyIndicatorHidden reports whether part's empty indicator is hidden.
func (p *Partitions) EmptyIndicatorHidden(part Partition) bool {
	return p.containers[part].emptyHidden
}

// place appends card to part without any move side effects. Used while seeding.
func (p *Partitions) place(card *Card, part Partition) {
	p.containers[part].members = append(p.containers[part].members, card.ID)
	card.partition = part
}

// relocate removes card from the other container and appends it to dest.
// A card already in dest keeps its position.
func (p *Partitions) relocate(card *Card, dest Partition) {
	// Destination indicator is hidden before the append; the full recompute follows.
	p.containers[dest].emptyHidden = true
	if slices.Contains(p.containers[dest].members, card.ID) {
		card.partition = dest
		return
	}
	for idx := range p.containers {
		p.containers[idx].members = slices.DeleteFunc(p.containers[idx].members, func(id int64) bool {
			return id == card.ID
		})
	}
	p.containers[dest].members = append(p.containers[dest].members, card.ID)
	card.partition = dest
}
