package services

import "errors"

// Sentinel errors shared across the engine. Controllers translate these into
// the structured failure payloads the client expects.
var (
	ErrBoardNotFound        = errors.New("board not found")
	ErrBoardNotOpen         = errors.New("board is not open for entries")
	ErrSquareTaken          = errors.New("square already taken")
	ErrNotEnoughSquares     = errors.New("not enough squares remaining on board")
	ErrInvalidIndex         = errors.New("invalid square index")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrUserNotFound         = errors.New("user not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrAlreadySettled       = errors.New("period already settled for board")
	ErrDuplicateTransaction = errors.New("duplicate transaction reference")
	ErrRegionNotFound       = errors.New("not-found")
)
