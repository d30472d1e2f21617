package board

import "github.com/hylla/choreboard/internal/domain"

// Partition is one of the two card containers.
type Partition int

// Partition values.
const (
	PartitionActive Partition = iota
	PartitionCompleted
)

// String returns the partition name.
func (p Partition) String() string {
	if p == PartitionCompleted {
		return "completed"
	}
	return "active"
}

// PartitionFor maps a status to the partition that must hold a card with it.
func PartitionFor(status domain.Status) Partition {
	if status.Resolved() {
		return PartitionCompleted
	}
	return PartitionActive
}

// CardSeed is the pre-rendered state of one card at board construction.
type CardSeed struct {
	ID     int64
	Title  string
	Owner  string
	Status domain.Status
}

// Card is the board-side state of one chore.
type Card struct {
	ID     int64
	Title  string
	Owner  string
	Status domain.Status
	// Class is the presentational status class, set by partition moves.
	Class domain.Status
	Label string

	// Offset is the horizontal visual displacement in pointer units.
	Offset   int
	Rotation float64
	Dragging bool
	// Settling is set between a swipe commit and the reconciler outcome.
	Settling        bool
	SettleDirection int

	Locked         bool
	FilteredHidden bool
	InFlight       bool

	partition    Partition
	gestureBound bool
	holdBound    bool
	inFlightSeq  uint64
}

// Partition returns the container that currently holds the card.
func (c Card) Partition() Partition {
	return c.partition
}

// GestureBound reports whether the swipe tracker is attached.
func (c Card) GestureBound() bool {
	return c.gestureBound
}

// resetVisual returns the card to its neutral drag presentation.
func (c *Card) resetVisual() {
	c.Offset = 0
	c.Rotation = 0
	c.Dragging = false
	c.Settling = false
	c.SettleDirection = 0
}
