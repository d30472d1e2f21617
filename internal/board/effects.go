package board

import (
	"time"

	"github.com/hylla/choreboard/internal/domain"
)

// Effect is work the host must perform on behalf of the board.
type Effect interface {
	effect()
}

// ArmHold asks the host to call Board.HoldElapsed(CardID, Token) after After.
type ArmHold struct {
	CardID int64
	Token  uint64
	After  time.Duration
}

// ConfirmRevert asks the host for a yes/no decision on returning a card to pending.
type ConfirmRevert struct {
	CardID int64
	Prompt string
}

// SendStatus asks the host to send one status update to the remote store and to
// report the outcome through Board.CompleteStatus(Seq, ...).
type SendStatus struct {
	CardID int64
	Status domain.Status
	Seq    uint64
}

func (ArmHold) effect()       {}
func (ConfirmRevert) effect() {}
func (SendStatus) effect()    {}
