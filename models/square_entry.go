package models

import "time"

// SquareEntry records one user's purchase of one square on a board. Entries
// are never mutated after creation except for the Refunded flag, which is set
// when the containing board is cancelled and the entry fee returned.
type SquareEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BoardID     uint      `gorm:"uniqueIndex:idx_board_square" json:"boardId"`
	SquareIndex int       `gorm:"uniqueIndex:idx_board_square" json:"index"`
	GameID      uint      `gorm:"index" json:"gameId"`
	UserID      uint      `gorm:"index" json:"userID"`
	Refunded    bool      `json:"refunded"`
	CreatedAt   time.Time `json:"created_at"`
}
