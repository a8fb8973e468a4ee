package models

import "time"

type GameStatus string

const (
	GameScheduled  GameStatus = "scheduled"
	GameInProgress GameStatus = "in_progress"
	GameFinal      GameStatus = "final"
)

// Period values while a game is live. 0 = not started, 1-4 = quarters, 5 = overtime.
const (
	PeriodPregame  = 0
	PeriodQ1       = 1
	PeriodQ2       = 2
	PeriodQ3       = 3
	PeriodQ4       = 4
	PeriodOvertime = 5
)

type Game struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SID        string     `gorm:"column:sid;uniqueIndex" json:"sid"` // external feed identifier
	Sport      string     `json:"sport"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	Status     GameStatus `json:"status"`
	IsLive     bool       `json:"is_live"`
	Period     int        `json:"period"`
	IsHalftime bool       `json:"is_halftime"`
	HomeScore  int        `json:"home_team_score"`
	AwayScore  int        `json:"away_team_score"`
	StartTime  time.Time  `json:"start_time"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
