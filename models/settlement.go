package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement period labels, one per payout checkpoint.
const (
	PeriodLabelQ1    = "q1"
	PeriodLabelHalf  = "half"
	PeriodLabelQ3    = "q3"
	PeriodLabelFinal = "final"
)

// Settlement is the per-board-per-period settlement marker. The unique
// (board_id, period) index is the claim that makes settlement at-most-once:
// the row is created before any funds move, and a duplicate-key failure means
// the period was already settled. WinnerUserID is nil for a house square
// (unclaimed winner on a free board).
type Settlement struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	BoardID      uint            `gorm:"uniqueIndex:idx_board_period" json:"boardId"`
	Period       string          `gorm:"uniqueIndex:idx_board_period" json:"period"`
	WinningIndex int             `json:"winning_index"`
	HomeDigit    int             `json:"home_digit"`
	AwayDigit    int             `json:"away_digit"`
	WinnerUserID *uint           `json:"winnerUserID,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric" json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}
