package models

import "time"

// HighScore is one leaderboard entry.
type HighScore struct {
	Initials string    `json:"initials"`
	Score    int64     `json:"score"`
	Level    int64     `json:"level"`
	Date     time.Time `json:"date"`
}
