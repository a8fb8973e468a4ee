package models

import "time"

// Notification tags consumed by the client for routing and iconography.
// These values are a fixed external contract.
const (
	NotifyBoardFull     = "board_full"
	NotifyBoardActive   = "board_active"
	NotifyBoardEntry    = "board_entry"
	NotifyBoardUnfilled = "board_unfilled"
	NotifyDeposit       = "deposit"
	NotifyWithdrawal    = "withdrawal"
	NotifyRefund        = "refund"
	NotifyWinnings      = "winnings"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"userID"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	BoardID   *uint     `json:"boardId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"timestamp"`
}
