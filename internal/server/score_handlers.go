package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"flappy-game/internal/models"
	"flappy-game/internal/session"
)

const leaderboardSize = 10

// StartSession opens a new game session for the authenticated user.
//
// POST /api/scores/start-session
func (s *GameServer) StartSession(c *gin.Context) {
	var req struct {
		ClientVersion string            `json:"clientVersion" binding:"required"`
		DeviceInfo    models.DeviceInfo `json:"deviceInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "clientVersion is required"})
		return
	}

	userID := c.GetString("userId")
	sessionID, timestamp, err := s.sessions.Start(c.Request.Context(), userID, req.ClientVersion, req.DeviceInfo)
	if err != nil {
		if errors.Is(err, session.ErrClientVersion) {
			c.JSON(400, gin.H{"error": "Client version mismatch", "message": "Please update your game client"})
			return
		}
		s.log.Error("failed to start session", "userId", userID, "err", err)
		c.JSON(500, gin.H{"error": "Error creating game session"})
		return
	}

	c.JSON(200, gin.H{
		"success":   true,
		"sessionId": sessionID,
		"timestamp": timestamp,
	})
}

// RecordEvent appends one gameplay event to the caller's active session.
//
// POST /api/scores/record-event/:sessionId
func (s *GameServer) RecordEvent(c *gin.Context) {
	var req struct {
		EventType string          `json:"eventType" binding:"required"`
		EventData json.RawMessage `json:"eventData"`
		Timestamp int64           `json:"timestamp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "eventType and timestamp are required"})
		return
	}

	userID := c.GetString("userId")
	event := models.GameEvent{
		Timestamp: req.Timestamp,
		Type:      req.EventType,
		Data:      req.EventData,
	}

	err := s.sessions.RecordEvent(c.Request.Context(), userID, c.Param("sessionId"), event)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(404, gin.H{"error": "Active session not found", "message": "Please start a new game session"})
			return
		}
		s.log.Error("failed to record event", "userId", userID, "err", err)
		c.JSON(500, gin.H{"error": "Error recording game event"})
		return
	}

	c.JSON(200, gin.H{"success": true})
}

// SubmitScore finalizes a session after integrity and plausibility checks.
//
// POST /api/scores/submit
func (s *GameServer) SubmitScore(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
		Score     *int   `json:"score" binding:"required"`
		// No required tag: an empty event log must reach the verifier so
		// the client gets its specific rejection, not a validation error.
		GameEvents []models.GameEvent `json:"gameEvents"`
		Checksum   string             `json:"checksum" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}
	if *req.Score < 0 || *req.Score > models.MaxScore {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "Invalid score"})
		return
	}

	userID := c.GetString("userId")
	newBest, err := s.sessions.Finalize(c.Request.Context(), userID, req.SessionID, *req.Score, req.GameEvents, req.Checksum)
	if err != nil {
		s.handleSubmitError(c, userID, err)
		return
	}

	if newBest {
		s.broadcastBestScore(c.Request.Context(), userID, *req.Score)
	}

	c.JSON(200, gin.H{
		"success":    true,
		"message":    "Score verified and recorded",
		"finalScore": *req.Score,
	})
}

func (s *GameServer) handleSubmitError(c *gin.Context, userID string, err error) {
	var plausibility *session.PlausibilityError

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(404, gin.H{"error": "Session not found", "message": "Invalid or expired game session"})

	case errors.Is(err, session.ErrChecksumMismatch):
		s.notifyRejection(c, userID, "checksum mismatch")
		c.JSON(400, gin.H{"error": "Invalid checksum", "message": "Game data has been tampered with"})

	case errors.As(err, &plausibility):
		s.notifyRejection(c, userID, plausibility.Reason)
		c.JSON(400, gin.H{"error": "Invalid gameplay", "message": plausibility.Reason})

	default:
		s.log.Error("failed to submit score", "userId", userID, "err", err)
		c.JSON(500, gin.H{"error": "Error submitting score"})
	}
}

func (s *GameServer) notifyRejection(c *gin.Context, userID, reason string) {
	_ = s.notifications.Notify(c.Request.Context(), &models.AdminNotification{
		Type:     "submission_rejected",
		Priority: "medium",
		Message:  fmt.Sprintf("Score submission from user %s rejected: %s", userID, reason),
	})
}

// GetLeaderboard returns top scores per recency window. Public.
//
// GET /api/scores
func (s *GameServer) GetLeaderboard(c *gin.Context) {
	lb, err := s.db.GetLeaderboard(c.Request.Context(), leaderboardSize)
	if err != nil {
		s.log.Error("failed to fetch leaderboard", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching leaderboard data"})
		return
	}
	c.JSON(200, lb)
}

// GetPersonalScores returns the caller's own best scores.
//
// GET /api/scores/personal
func (s *GameServer) GetPersonalScores(c *gin.Context) {
	scores, err := s.db.GetPersonalScores(c.Request.Context(), c.GetString("userId"), leaderboardSize)
	if err != nil {
		s.log.Error("failed to fetch personal scores", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching personal scores"})
		return
	}
	c.JSON(200, gin.H{"success": true, "scores": scores})
}
