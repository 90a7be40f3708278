package models

import "time"

// MaxScore bounds accepted score submissions.
const MaxScore = 999999

// Score is a user's best verified score, keyed by user id.
type Score struct {
	UserID    string    `json:"userId" db:"user_id"`
	Score     int       `json:"score" db:"score"`
	SessionID string    `json:"sessionId" db:"session_id"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Username string `json:"username" db:"username"`
	Score    int    `json:"score" db:"score"`
}

// Leaderboard groups top entries by recency window.
type Leaderboard struct {
	Today      []LeaderboardEntry `json:"today"`
	Last7Days  []LeaderboardEntry `json:"last7Days"`
	Last30Days []LeaderboardEntry `json:"last30Days"`
}

// PersonalScore is one of a user's own recorded scores.
type PersonalScore struct {
	Score     int       `json:"score" db:"score"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
