package board

import "errors"

var (
	ErrUnknownCard      = errors.New("unknown card")
	ErrUnknownRequest   = errors.New("unknown status request")
	ErrRequestInFlight  = errors.New("status request already in flight")
	ErrNoPendingConfirm = errors.New("no revert confirmation pending")
	ErrUnknownTab       = errors.New("unknown tab")
)
