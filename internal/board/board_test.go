package board

import (
	"errors"
	"testing"

	"github.com/hylla/choreboard/internal/domain"
	"github.com/matryer/is"
)

func TestNewSeedsPartitions(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), []byte(`["Ana","Ben"]`))

	is.Equal(b.Members(PartitionActive), []int64{7, 8})
	is.Equal(b.Members(PartitionCompleted), []int64{9})
	card, _ := b.Card(9)
	is.Equal(card.Class, domain.StatusDone)
	is.Equal(card.Label, "Done ✅")
	is.True(!card.GestureBound())
	card, _ = b.Card(7)
	is.True(card.GestureBound())
	is.Equal(card.Label, "Pending ⏳")
	assertConsistent(t, b)
}

func TestNewUnknownStatusFallsBackToPending(t *testing.T) {
	is := is.New(t)
	b := New([]CardSeed{{ID: 1, Title: "Sweep", Owner: "Ana", Status: "archived"}}, nil)

	card, ok := b.Card(1)
	is.True(ok)
	is.Equal(card.Status, domain.StatusPending)
	is.Equal(card.Label, "Pending ⏳")
	is.Equal(b.Members(PartitionActive), []int64{1})
	assertConsistent(t, b)
}

func TestEmptyBoardShowsBothIndicators(t *testing.T) {
	is := is.New(t)
	b := New(nil, nil)

	is.True(!b.EmptyIndicatorHidden(PartitionActive))
	is.True(!b.EmptyIndicatorHidden(PartitionCompleted))
	is.Equal(len(b.Tabs()), 1)
}

// TestSwipeDoneMovesCardToCompleted follows a right swipe through a successful store reply.
func TestSwipeDoneMovesCardToCompleted(t *testing.T) {
	is := is.New(t)
	b := New([]CardSeed{{ID: 7, Title: "Make bed", Owner: "Ana", Status: domain.StatusPending}}, []byte(`["Ana"]`))

	send := onlySend(t, swipe(b, 7, 100, 220))
	is.Equal(send, SendStatus{CardID: 7, Status: domain.StatusDone, Seq: send.Seq})

	result := b.CompleteStatus(send.Seq, domain.StatusAck{OK: true}, nil)
	is.Equal(result.Outcome, OutcomeApplied)
	is.NoErr(result.Err)

	card, _ := b.Card(7)
	is.Equal(card.Status, domain.StatusDone)
	is.Equal(card.Label, "Done ✅")
	is.Equal(card.Partition(), PartitionCompleted)
	is.True(card.Locked)
	is.True(!card.Settling)
	is.Equal(card.Offset, 0)
	is.True(!b.EmptyIndicatorHidden(PartitionActive)) // no other active cards remain
	is.True(b.EmptyIndicatorHidden(PartitionCompleted))
	assertConsistent(t, b)
}

func TestSwipeDoneKeepsActiveIndicatorHiddenWhenOthersRemain(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	send := onlySend(t, swipe(b, 7, 100, 220))
	b.CompleteStatus(send.Seq, domain.StatusAck{OK: true}, nil)

	is.Equal(b.Members(PartitionActive), []int64{8})
	is.True(b.EmptyIndicatorHidden(PartitionActive))
	assertConsistent(t, b)
}

// TestRevertUnderFilterStaysHidden reverts a done card while another owner's tab is active.
func TestRevertUnderFilterStaysHidden(t *testing.T) {
	is := is.New(t)
	b := New([]CardSeed{{ID: 7, Title: "Make bed", Owner: "Ana", Status: domain.StatusDone}}, []byte(`["Ana","Ben"]`))
	is.NoErr(b.SelectOwner("Ben"))

	card, _ := b.Card(7)
	is.True(card.FilteredHidden)

	arm := onlyArm(t, b.Dispatch(7, Press(0)))
	effects := b.HoldElapsed(7, arm.Token)
	is.Equal(len(effects), 1)
	is.Equal(effects[0].(ConfirmRevert).Prompt, `Mark "Make bed" for Ana back to pending?`)

	effects, err := b.ConfirmRevert(7)
	is.NoErr(err)
	send := onlySend(t, effects)
	is.Equal(send.Status, domain.StatusPending)

	result := b.CompleteStatus(send.Seq, domain.StatusAck{OK: true}, nil)
	is.Equal(result.Outcome, OutcomeApplied)

	card, _ = b.Card(7)
	is.Equal(card.Partition(), PartitionActive)
	is.True(!card.Locked)
	is.True(card.GestureBound())
	is.True(card.FilteredHidden)
	is.Equal(b.Members(PartitionActive), []int64{7})
	is.Equal(b.VisibleCount(PartitionActive), 0)
	is.True(!b.EmptyIndicatorHidden(PartitionActive))
	assertConsistent(t, b)

	// reverted card is draggable again
	is.NoErr(b.SelectTab(0))
	send = onlySend(t, swipe(b, 7, 0, 100))
	is.Equal(send.Status, domain.StatusDone)
}

// TestTransportFailureLeavesCardUntouched fails a skip swipe on the network.
func TestTransportFailureLeavesCardUntouched(t *testing.T) {
	is := is.New(t)
	b := New([]CardSeed{
		{ID: 9, Title: "Feed the cat", Owner: "Ben", Status: domain.StatusPending},
		{ID: 10, Title: "Sweep", Owner: "Ben", Status: domain.StatusPending},
	}, nil)

	send := onlySend(t, swipe(b, 9, 300, 100))
	is.Equal(send.Status, domain.StatusSkipped)

	netErr := errors.New("connection refused")
	result := b.CompleteStatus(send.Seq, domain.StatusAck{}, netErr)
	is.Equal(result.Outcome, OutcomeTransportFailed)
	is.True(errors.Is(result.Err, netErr))

	card, _ := b.Card(9)
	is.Equal(card.Status, domain.StatusPending)
	is.Equal(card.Partition(), PartitionActive)
	is.True(!card.InFlight)
	is.True(card.Settling) // left where the gesture put it
	is.Equal(card.Offset, -settleDistance)
	assertConsistent(t, b)

	// other cards keep working
	other := onlySend(t, swipe(b, 10, 0, 200))
	is.Equal(b.CompleteStatus(other.Seq, domain.StatusAck{OK: true}, nil).Outcome, OutcomeApplied)

	// the failed card can be swiped again
	retry := onlySend(t, swipe(b, 9, 300, 100))
	is.Equal(b.CompleteStatus(retry.Seq, domain.StatusAck{OK: true}, nil).Outcome, OutcomeApplied)
	card, _ = b.Card(9)
	is.Equal(card.Status, domain.StatusSkipped)
	is.Equal(card.Class, domain.StatusSkipped)
	assertConsistent(t, b)
}

func TestRejectionLeavesCardUntouched(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	send := onlySend(t, swipe(b, 7, 0, 200))
	result := b.CompleteStatus(send.Seq, domain.StatusAck{OK: false, Error: "invalid status"}, nil)
	is.Equal(result.Outcome, OutcomeRejected)
	is.True(errors.Is(result.Err, ErrRejected))

	card, _ := b.Card(7)
	is.Equal(card.Status, domain.StatusPending)
	is.Equal(card.Partition(), PartitionActive)
	is.True(card.Settling)
	assertConsistent(t, b)
}

func TestSnapBackOnFailure(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil, WithSnapBackOnFailure(true))

	send := onlySend(t, swipe(b, 7, 0, 200))
	b.CompleteStatus(send.Seq, domain.StatusAck{}, errors.New("timeout"))

	card, _ := b.Card(7)
	is.True(!card.Settling)
	is.Equal(card.Offset, 0)
	is.Equal(card.Rotation, 0.0)
}

func TestSecondRequestWhileInFlightIsRejected(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	send := onlySend(t, swipe(b, 7, 0, 200))

	_, err := b.RequestStatus(7, domain.StatusSkipped)
	is.True(errors.Is(err, ErrRequestInFlight))

	// new drags are refused while the first request runs
	is.Equal(len(swipe(b, 7, 0, 200)), 0)

	is.Equal(b.CompleteStatus(send.Seq, domain.StatusAck{OK: true}, nil).Outcome, OutcomeApplied)
	is.Equal(b.CompleteStatus(send.Seq, domain.StatusAck{OK: true}, nil).Outcome, OutcomeStale)
}

func TestHoldRefusedWhileInFlight(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	effects, err := b.RequestStatus(9, domain.StatusSkipped)
	is.NoErr(err)
	send := onlySend(t, effects)

	is.Equal(len(b.Dispatch(9, Press(0))), 0)
	b.CompleteStatus(send.Seq, domain.StatusAck{OK: true}, nil)
	card, _ := b.Card(9)
	is.Equal(card.Class, domain.StatusSkipped)
	is.Equal(card.Label, "Skipped ⏭")
}

func TestSameStatusIsNoOp(t *testing.T) {
	is := is.New(t)
	b := New([]CardSeed{
		{ID: 1, Title: "A", Owner: "Ana", Status: domain.StatusDone},
		{ID: 2, Title: "B", Owner: "Ana", Status: domain.StatusDone},
		{ID: 3, Title: "C", Owner: "Ana", Status: domain.StatusPending},
	}, nil)

	for _, id := range []int64{1, 3} {
		before, _ := b.Card(id)
		effects, err := b.RequestStatus(id, before.Status)
		is.NoErr(err)
		result := b.CompleteStatus(onlySend(t, effects).Seq, domain.StatusAck{OK: true}, nil)
		is.Equal(result.Outcome, OutcomeApplied)

		after, _ := b.Card(id)
		is.Equal(after.Partition(), before.Partition())
		is.Equal(after.Locked, before.Locked)
	}
	is.Equal(b.Members(PartitionCompleted), []int64{1, 2})
	is.Equal(b.Members(PartitionActive), []int64{3})
	assertConsistent(t, b)
}

func TestRequestStatusValidation(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	_, err := b.RequestStatus(42, domain.StatusDone)
	is.True(errors.Is(err, ErrUnknownCard))
	_, err = b.RequestStatus(7, "archived")
	is.True(errors.Is(err, domain.ErrInvalidStatus))
}

func TestUnknownResultIsStale(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	result := b.CompleteStatus(99, domain.StatusAck{OK: true}, nil)
	is.Equal(result.Outcome, OutcomeStale)
	is.True(errors.Is(result.Err, ErrUnknownRequest))
	assertConsistent(t, b)
}

func TestMismatchedAckIsRejected(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), nil)

	effects, err := b.RequestStatus(9, domain.StatusPending)
	is.NoErr(err)
	send := onlySend(t, effects)

	result := b.CompleteStatus(send.Seq, domain.StatusAck{OK: true, ChoreID: 9, Status: domain.StatusDone}, nil)
	is.Equal(result.Outcome, OutcomeRejected)
	is.True(errors.Is(result.Err, ErrRejected))

	card, _ := b.Card(9)
	is.Equal(card.Status, domain.StatusDone)
	is.Equal(card.Partition(), PartitionCompleted)
	is.True(!card.InFlight)
	assertConsistent(t, b)
}

func TestFilterRoundTrip(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), []byte(`["Ana","Ben"]`))

	before := map[int64]bool{}
	for _, card := range b.Cards() {
		before[card.ID] = card.FilteredHidden
	}

	is.NoErr(b.SelectOwner("Ben"))
	owner, set := b.Filter()
	is.True(set)
	is.Equal(owner, "Ben")
	is.Equal(b.VisibleCount(PartitionActive), 1)
	is.True(!b.EmptyIndicatorHidden(PartitionCompleted)) // only Ana has finished work
	assertConsistent(t, b)

	is.NoErr(b.SelectTab(0))
	_, set = b.Filter()
	is.True(!set)
	for _, card := range b.Cards() {
		is.Equal(card.FilteredHidden, before[card.ID])
	}
	assertConsistent(t, b)
}

func TestTabsFromOwnerList(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), []byte(`["Ana","Ben","Ana"," "]`))

	tabs := b.Tabs()
	is.Equal(len(tabs), 3)
	is.Equal(tabs[0], Tab{Label: AllTabLabel, Active: true})
	is.Equal(tabs[1].Owner, "Ana")
	is.Equal(tabs[2].Owner, "Ben")

	is.NoErr(b.SelectTab(2))
	is.Equal(b.ActiveTab(), 2)
	active := 0
	for _, tab := range b.Tabs() {
		if tab.Active {
			active++
		}
	}
	is.Equal(active, 1)

	is.True(errors.Is(b.SelectTab(3), ErrUnknownTab))
	is.True(errors.Is(b.SelectOwner("Cleo"), ErrUnknownTab))
	is.Equal(b.ActiveTab(), 2)
}

func TestMalformedOwnerListShowsAll(t *testing.T) {
	is := is.New(t)
	b := New(testSeeds(), []byte(`{"kids":`))

	is.Equal(len(b.Tabs()), 1)
	for _, card := range b.Cards() {
		is.True(!card.FilteredHidden)
	}
	assertConsistent(t, b)
}

func TestParseOwners(t *testing.T) {
	is := is.New(t)

	owners, err := ParseOwners(nil)
	is.NoErr(err)
	is.Equal(len(owners), 0)

	owners, err = ParseOwners([]byte(`["Griffin","Garreth"]`))
	is.NoErr(err)
	is.Equal(owners, []string{"Griffin", "Garreth"})

	_, err = ParseOwners([]byte(`not json`))
	is.True(err != nil)
}
