// Package session orchestrates the lifecycle of one play attempt: start,
// event recording while active, and the single finalize transition that runs
// the integrity and plausibility checks before any score is recorded.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"flappy-game/internal/database"
	"flappy-game/internal/game"
	"flappy-game/internal/models"
)

// Store is the slice of persistence the manager needs. All session lookups
// are scoped by (userID, sessionID), so cross-user access is impossible by
// construction rather than by a post-hoc ownership check.
type Store interface {
	CreateSession(ctx context.Context, s *models.GameSession) error
	GetActiveSession(ctx context.Context, userID, sessionID string) (*models.GameSession, error)
	AppendSessionEvent(ctx context.Context, userID, sessionID string, event models.GameEvent) error
	FinalizeSession(ctx context.Context, userID, sessionID string, events []models.GameEvent, finalScore int, checksum string) error
	UpsertBestScore(ctx context.Context, userID string, score int, sessionID string) (bool, error)
}

type Manager struct {
	store           Store
	policy          game.Policy
	expectedVersion string
	log             *slog.Logger
}

func NewManager(store Store, policy game.Policy, expectedVersion string, log *slog.Logger) *Manager {
	return &Manager{
		store:           store,
		policy:          policy,
		expectedVersion: expectedVersion,
		log:             log,
	}
}

// Start opens a new active session for the user and returns its unforgeable
// id together with the server timestamp it was derived from.
func (m *Manager) Start(ctx context.Context, userID, clientVersion string, deviceInfo models.DeviceInfo) (sessionID string, timestamp int64, err error) {
	if !game.VerifyClientIntegrity(clientVersion, m.expectedVersion) {
		return "", 0, ErrClientVersion
	}

	sessionID, timestamp, err = game.GenerateSessionToken(userID)
	if err != nil {
		return "", 0, err
	}

	s := &models.GameSession{
		UserID:        userID,
		SessionID:     sessionID,
		StartTime:     time.UnixMilli(timestamp).UTC(),
		ClientVersion: clientVersion,
		DeviceInfo:    deviceInfo,
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return "", 0, err
	}

	m.log.Info("game session started", "userId", userID, "sessionId", sessionID)
	return sessionID, timestamp, nil
}

// RecordEvent appends one event to a caller-owned active session.
func (m *Manager) RecordEvent(ctx context.Context, userID, sessionID string, event models.GameEvent) error {
	err := m.store.AppendSessionEvent(ctx, userID, sessionID, event)
	if err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Finalize runs the verification pipeline over the submitted score and event
// log and, on success, performs the Active→Finalized transition and updates
// the score ledger. Order matters: ownership/liveness first (404), then
// integrity, then plausibility, so the failure modes stay distinguishable.
// Returns whether the score became the user's new best.
func (m *Manager) Finalize(ctx context.Context, userID, sessionID string, claimedScore int, events []models.GameEvent, checksum string) (newBest bool, err error) {
	if _, err := m.store.GetActiveSession(ctx, userID, sessionID); err != nil {
		return false, mapStoreErr(err)
	}

	if game.EventsChecksum(events) != checksum {
		m.log.Warn("checksum mismatch on submit", "userId", userID, "sessionId", sessionID)
		return false, ErrChecksumMismatch
	}

	if result := m.policy.Verify(events, claimedScore); !result.Valid {
		m.log.Warn("implausible gameplay rejected", "userId", userID, "sessionId", sessionID, "reason", result.Reason)
		return false, &PlausibilityError{Reason: result.Reason}
	}

	// The store's conditional update guards the transition; if a concurrent
	// submit won the race the session is no longer active and this fails.
	if err := m.store.FinalizeSession(ctx, userID, sessionID, events, claimedScore, checksum); err != nil {
		return false, mapStoreErr(err)
	}

	newBest, err = m.store.UpsertBestScore(ctx, userID, claimedScore, sessionID)
	if err != nil {
		return false, err
	}
	return newBest, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, database.ErrNoActiveSession) {
		return ErrSessionNotFound
	}
	return err
}
