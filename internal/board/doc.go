// Package board holds the interaction core of the chore board: per-card swipe and
// hold gesture recognition, the active/completed partitions with their empty
// indicators, the owner filter, and reconciliation of local card state with the
// remote status store.
//
// The package never blocks and never starts goroutines. Operations that need a
// timer or a network round trip return Effect values; the host executes them and
// reports back through Board.HoldElapsed, Board.ConfirmRevert and
// Board.CompleteStatus. All calls must come from one goroutine.
package board
