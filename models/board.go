package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BoardStatus string

const (
	BoardOpen         BoardStatus = "open"
	BoardFull         BoardStatus = "full"
	BoardActive       BoardStatus = "active"
	BoardUnfilled     BoardStatus = "unfilled"
	BoardInProgressQ1 BoardStatus = "in_progress_q1"
	BoardInProgressQ2 BoardStatus = "in_progress_q2"
	BoardHalftime     BoardStatus = "halftime"
	BoardInProgressQ3 BoardStatus = "in_progress_q3"
	BoardInProgressQ4 BoardStatus = "in_progress_q4"
	BoardOvertime     BoardStatus = "ot"
	BoardFinal        BoardStatus = "final"
	BoardCancelled    BoardStatus = "cancelled"
)

const (
	// BoardCapacity is the number of squares on a board (10x10 grid).
	BoardCapacity = 100

	// ClosureGameStartedUnfilled is recorded when a paid board misses
	// kickoff with fewer than 100 squares sold.
	ClosureGameStartedUnfilled = "game_started_unfilled"
)

// Board is a single 10x10 squares board tied to one game and one entry-fee
// tier. Amount of zero marks a free sweepstakes board, which proceeds at
// kickoff regardless of fill.
type Board struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	GameID uint            `gorm:"index" json:"gameID"`
	Amount decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Status BoardStatus     `json:"status"`

	// SelectedIndexes holds the purchased square indexes (0-99), at most 100.
	SelectedIndexes datatypes.JSONSlice[int] `json:"selected_indexes"`

	// HomeNumbers/AwayNumbers are each a permutation of the digits 0-9.
	// Absent until the board fills (or activates, for a free board);
	// immutable once assigned.
	HomeNumbers datatypes.JSONSlice[int] `json:"home_numbers"`
	AwayNumbers datatypes.JSONSlice[int] `json:"away_numbers"`

	Pot    decimal.Decimal `gorm:"type:numeric" json:"pot"`
	Payout decimal.Decimal `gorm:"type:numeric" json:"payout"` // per winning period

	ClosedAt      *time.Time `json:"closed_at"`
	ActivatedAt   *time.Time `json:"activated_at"`
	ClosureReason string     `json:"closure_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFree reports whether the board is a free sweepstakes board.
func (b *Board) IsFree() bool {
	return b.Amount.IsZero()
}

// HasNumbers reports whether the axis permutations have been assigned.
func (b *Board) HasNumbers() bool {
	return len(b.HomeNumbers) == 10 && len(b.AwayNumbers) == 10
}
