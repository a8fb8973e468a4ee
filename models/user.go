package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Username  string          `gorm:"uniqueIndex" json:"username"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `gorm:"type:numeric" json:"balance"`
	State     string          `json:"state"` // two-letter region code from location verification
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
