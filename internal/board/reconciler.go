package board

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hylla/choreboard/internal/domain"
)

// Outcome classifies the result of one status request.
type Outcome int

// Outcome values.
const (
	OutcomeApplied Outcome = iota + 1
	OutcomeRejected
	OutcomeTransportFailed
	OutcomeStale
)

// String returns a short outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportFailed:
		return "transport_failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Result reports how the board handled one completed status request.
type Result struct {
	Outcome Outcome
	CardID  int64
	Status  domain.Status
	Err     error
}

// ErrRejected wraps a structured failure reported by the store.
var ErrRejected = errors.New("status update rejected")

// pendingRequest is one request awaiting its result.
type pendingRequest struct {
	cardID int64
	status domain.Status
}

// Reconciler is the only writer of status to the remote store and the only
// applier of its results to board state.
type Reconciler struct {
	cards      map[int64]*Card
	partitions *Partitions
	filter     *Filter
	logger     *log.Logger
	snapBack   bool

	seq     uint64
	pending map[uint64]pendingRequest
}

// newReconciler constructs a reconciler over the shared board state.
func newReconciler(cards map[int64]*Card, partitions *Partitions, filter *Filter, logger *log.Logger, snapBack bool) *Reconciler {
	return &Reconciler{
		cards:      cards,
		partitions: partitions,
		filter:     filter,
		logger:     logger,
		snapBack:   snapBack,
		pending:    map[uint64]pendingRequest{},
	}
}

// SetStatus marks card in flight and returns the request the host must send.
// A card accepts one request at a time.
func (r *Reconciler) SetStatus(card *Card, target domain.Status) (SendStatus, error) {
	if !target.Valid() {
		return SendStatus{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, target)
	}
	if card.InFlight {
		return SendStatus{}, fmt.Errorf("card %d: %w", card.ID, ErrRequestInFlight)
	}
	r.seq++
	card.InFlight = true
	card.inFlightSeq = r.seq
	r.pending[r.seq] = pendingRequest{cardID: card.ID, status: target}
	return SendStatus{CardID: card.ID, Status: target, Seq: r.seq}, nil
}

// InFlight returns the number of requests awaiting a result.
func (r *Reconciler) InFlight() int {
	return len(r.pending)
}

// Complete applies the result of request seq. ack is ignored when err is non-nil.
func (r *Reconciler) Complete(seq uint64, ack domain.StatusAck, err error) Result {
	req, ok := r.pending[seq]
	if !ok {
		r.logger.Debug("dropping result for unknown request", "seq", seq)
		return Result{Outcome: OutcomeStale, Err: ErrUnknownRequest}
	}
	delete(r.pending, seq)

	card, ok := r.cards[req.cardID]
	if !ok || card.inFlightSeq != seq {
		r.logger.Debug("dropping stale status result", "seq", seq, "card_id", req.cardID)
		return Result{Outcome: OutcomeStale, CardID: req.cardID, Status: req.status}
	}
	card.InFlight = false
	card.inFlightSeq = 0

	if ack.Mismatch(card.ID, req.status) {
		ack = domain.StatusAck{Error: fmt.Sprintf("status mismatch: store echoed chore %d %q, requested chore %d %q", ack.ChoreID, ack.Status, card.ID, req.status)}
	}

	result := Result{CardID: card.ID, Status: req.status}
	switch {
	case err != nil:
		result.Outcome = OutcomeTransportFailed
		result.Err = err
		r.logger.Error("status update failed", "card_id", card.ID, "status", req.status, "err", err)
		r.fail(card)
	case !ack.OK:
		result.Outcome = OutcomeRejected
		result.Err = ErrRejected
		if ack.Error != "" {
			result.Err = fmt.Errorf("%w: %s", ErrRejected, ack.Error)
		}
		r.logger.Warn("status update rejected", "card_id", card.ID, "status", req.status, "reason", ack.Error)
		r.fail(card)
	default:
		result.Outcome = OutcomeApplied
		r.apply(card, req.status)
	}
	return result
}

// apply commits an authoritative status to card and its partition.
func (r *Reconciler) apply(card *Card, status domain.Status) {
	card.Status = status
	card.Label = status.Label()
	if status == domain.StatusPending {
		r.partitions.MoveToActive(card)
	} else {
		r.partitions.MoveToCompleted(card, status)
	}
	r.filter.Apply()
}

// fail leaves card where the gesture left it unless snap-back is enabled.
func (r *Reconciler) fail(card *Card) {
	if r.snapBack {
		card.resetVisual()
	}
}
