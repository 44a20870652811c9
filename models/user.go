package models

import (
	"time"
)

// User is a registered player. Points only ever go up, and only through
// UserService.AwardPoints.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// LeaderboardRow is the minimal projection returned by GET /leaderboard.
type LeaderboardRow struct {
	Username string `json:"username"`
	Points   int64  `json:"points"`
}
