package models

import (
	"encoding/json"
	"time"
)

// GameEvent is a single entry of a session's ordered event log. Data is kept
// as raw JSON so the checksum can be recomputed over the bytes the client
// actually sent.
type GameEvent struct {
	Timestamp int64           `json:"timestamp"` // unix milliseconds
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// DeviceInfo is free-form client metadata captured at session start.
type DeviceInfo struct {
	Platform         string `json:"platform,omitempty"`
	Browser          string `json:"browser,omitempty"`
	ScreenResolution string `json:"screenResolution,omitempty"`
}

// GameSession is one play attempt. A session with EndTime == nil is active;
// finalization sets EndTime, FinalScore, Verified and Checksum exactly once.
type GameSession struct {
	ID            int64       `json:"-" db:"id"`
	UserID        string      `json:"userId" db:"user_id"`
	SessionID     string      `json:"sessionId" db:"session_id"`
	StartTime     time.Time   `json:"startTime" db:"start_time"`
	EndTime       *time.Time  `json:"endTime,omitempty" db:"end_time"`
	GameEvents    []GameEvent `json:"gameEvents"`
	FinalScore    int         `json:"finalScore" db:"final_score"`
	ClientVersion string      `json:"clientVersion" db:"client_version"`
	DeviceInfo    DeviceInfo  `json:"deviceInfo"`
	Verified      bool        `json:"verified" db:"verified"`
	Checksum      string      `json:"checksum" db:"checksum"`
}

// Active reports whether the session can still accept events.
func (s *GameSession) Active() bool {
	return s.EndTime == nil
}
