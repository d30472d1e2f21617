package board

import (
	"testing"

	"github.com/hylla/choreboard/internal/domain"
	"github.com/matryer/is"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name         string
		displacement int
		want         domain.Status
		commit       bool
	}{
		{name: "zero", displacement: 0},
		{name: "right at threshold", displacement: 80},
		{name: "left at threshold", displacement: -80},
		{name: "right past threshold", displacement: 81, want: domain.StatusDone, commit: true},
		{name: "left past threshold", displacement: -81, want: domain.StatusSkipped, commit: true},
		{name: "far right", displacement: 400, want: domain.StatusDone, commit: true},
		{name: "far left", displacement: -400, want: domain.StatusSkipped, commit: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			got, ok := Decide(tc.displacement)
			is.Equal(ok, tc.commit)
			is.Equal(got, tc.want)
		})
	}
}

func TestGestureShortDragCancels(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	is.Equal(len(b.Dispatch(7, Press(100))), 0)
	b.Dispatch(7, Move(150))
	card, _ := b.Card(7)
	is.True(card.Dragging)
	is.Equal(card.Offset, 50)
	is.Equal(card.Rotation, 2.0)

	is.Equal(len(b.Dispatch(7, Release(180))), 0) // 80 does not commit
	card, _ = b.Card(7)
	is.True(!card.Dragging)
	is.Equal(card.Offset, 0)
	is.Equal(card.Rotation, 0.0)
	is.Equal(card.Status, domain.StatusPending)
	is.True(!card.InFlight)
}

func TestGestureCommitSettlesAndSends(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	send := onlySend(t, swipe(b, 8, 300, 150))
	is.Equal(send.CardID, int64(8))
	is.Equal(send.Status, domain.StatusSkipped)

	card, _ := b.Card(8)
	is.True(card.Settling)
	is.Equal(card.SettleDirection, -1)
	is.Equal(card.Offset, -settleDistance)
	is.Equal(card.Rotation, -float64(settleRotation))
	is.True(card.InFlight)
	is.Equal(card.Status, domain.StatusPending) // nothing applied before the store answers
	is.Equal(card.Partition(), PartitionActive)
}

func TestGestureTouchReleaseUsesLastMove(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	b.Dispatch(7, TouchStart(10))
	b.Dispatch(7, TouchMove(120))
	send := onlySend(t, b.Dispatch(7, TouchEnd()))
	is.Equal(send.Status, domain.StatusDone)
}

func TestGestureTouchCancelResets(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	b.Dispatch(7, TouchStart(10))
	b.Dispatch(7, TouchMove(200))
	is.Equal(len(b.Dispatch(7, TouchCancel())), 0)
	card, _ := b.Card(7)
	is.Equal(card.Offset, 0)
	is.True(!card.Dragging)

	is.Equal(len(b.Dispatch(7, TouchEnd())), 0) // stray end after cancel
}

func TestGestureIgnoresStrayAndSecondaryInput(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	is.Equal(len(b.Dispatch(7, Move(500))), 0)
	is.Equal(len(b.Dispatch(7, Release(500))), 0)
	card, _ := b.Card(7)
	is.Equal(card.Offset, 0)

	b.Dispatch(7, PressButton(0, ButtonSecondary))
	b.Dispatch(7, Move(200))
	is.Equal(len(b.Dispatch(7, Release(200))), 0)
	card, _ = b.Card(7)
	is.True(!card.Dragging)
	is.Equal(card.Offset, 0)
}

func TestGestureLeaveKeepsDragging(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	b.Dispatch(7, Press(0))
	b.Dispatch(7, Move(60))
	b.Dispatch(7, Leave())
	b.Dispatch(7, Move(120))
	send := onlySend(t, b.Dispatch(7, Release(120)))
	is.Equal(send.Status, domain.StatusDone)
}

func TestGestureLockedCardCannotDrag(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	for _, effect := range swipe(b, 9, 0, -300) {
		_, isSend := effect.(SendStatus)
		is.True(!isSend)
	}
	card, _ := b.Card(9)
	is.True(card.Locked)
	is.True(!card.Dragging)
	is.Equal(card.Offset, 0)
}

func TestGestureAttachIsIdempotent(t *testing.T) {
	is := is.New(t)
	g := newGestureTracker()
	card := &Card{ID: 1}

	is.True(g.Attach(card))
	is.True(!g.Attach(card))
	is.True(card.GestureBound())
}

func TestGestureOneSessionPerCard(t *testing.T) {
	is := is.New(t)
	g := newGestureTracker()
	card := &Card{ID: 1}
	g.Attach(card)

	is.Equal(g.Handle(card, Press(0)).Outcome, GestureStarted)
	is.Equal(g.Handle(card, TouchStart(50)).Outcome, GestureIgnored)
	is.Equal(g.Handle(card, Move(100)).Displacement, 100)
	is.True(g.Dragging(1))
	is.Equal(g.Handle(card, Release(100)).Outcome, GestureCommitted)
	is.True(!g.Dragging(1))
}
