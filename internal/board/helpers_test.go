package board

import (
	"testing"

	"github.com/hylla/choreboard/internal/domain"
	"github.com/matryer/is"
)

func testSeeds() []CardSeed {
	return []CardSeed{
		{ID: 7, Title: "Make bed", Owner: "Ana", Status: domain.StatusPending},
		{ID: 8, Title: "Feed the cat", Owner: "Ben", Status: domain.StatusPending},
		{ID: 9, Title: "Set the table", Owner: "Ana", Status: domain.StatusDone},
	}
}

// swipe drives a full mouse drag from start to end on card id.
func swipe(b *Board, id int64, start, end int) []Effect {
	var effects []Effect
	effects = append(effects, b.Dispatch(id, Press(start))...)
	effects = append(effects, b.Dispatch(id, Move(end))...)
	effects = append(effects, b.Dispatch(id, Release(end))...)
	return effects
}

// onlySend returns the single SendStatus effect in effects.
func onlySend(t *testing.T, effects []Effect) SendStatus {
	t.Helper()
	var sends []SendStatus
	for _, effect := range effects {
		if send, ok := effect.(SendStatus); ok {
			sends = append(sends, send)
		}
	}
	if len(sends) != 1 {
		t.Fatalf("SendStatus effects = %d, want 1 (effects %#v)", len(sends), effects)
	}
	return sends[0]
}

// assertConsistent checks partition membership and empty indicators for every card.
func assertConsistent(t *testing.T, b *Board) {
	t.Helper()
	is := is.NewRelaxed(t)
	seen := map[int64]int{}
	for _, part := range []Partition{PartitionActive, PartitionCompleted} {
		for _, id := range b.Members(part) {
			seen[id]++
			card, ok := b.Card(id)
			is.True(ok)
			is.Equal(PartitionFor(card.Status), part) // partition matches status
			is.Equal(card.Partition(), part)
			is.Equal(card.Locked, card.Status.Resolved())
		}
		is.Equal(b.EmptyIndicatorHidden(part), b.VisibleCount(part) > 0) // indicator hidden iff visible cards
	}
	for _, card := range b.Cards() {
		is.Equal(seen[card.ID], 1) // exactly one partition
	}
}
