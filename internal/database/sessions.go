package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"flappy-game/internal/models"
)

// CreateSession stores a freshly started session in the active state.
func (d *Database) CreateSession(ctx context.Context, s *models.GameSession) error {
	deviceInfo, err := json.Marshal(s.DeviceInfo)
	if err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO game_sessions (user_id, session_id, start_time, client_version, device_info)
		VALUES ($1, $2, $3, $4, $5)`,
		s.UserID, s.SessionID, s.StartTime, s.ClientVersion, deviceInfo)
	if err != nil {
		d.log.Error("failed to create game session", "sessionId", s.SessionID, "err", err)
		return err
	}
	return nil
}

// GetActiveSession looks up a still-open session. The query is scoped by
// (user_id, session_id) so another user's session is simply not found.
func (d *Database) GetActiveSession(ctx context.Context, userID, sessionID string) (*models.GameSession, error) {
	var (
		s          models.GameSession
		events     []byte
		deviceInfo []byte
	)

	err := d.db.QueryRowContext(ctx, `
		SELECT user_id, session_id, start_time, end_time, game_events,
		       final_score, client_version, device_info, verified, checksum
		FROM game_sessions
		WHERE user_id = $1 AND session_id = $2 AND end_time IS NULL`,
		userID, sessionID).Scan(
		&s.UserID, &s.SessionID, &s.StartTime, &s.EndTime, &events,
		&s.FinalScore, &s.ClientVersion, &deviceInfo, &s.Verified, &s.Checksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	if err := json.Unmarshal(events, &s.GameEvents); err != nil {
		return nil, err
	}
	if len(deviceInfo) > 0 {
		if err := json.Unmarshal(deviceInfo, &s.DeviceInfo); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// AppendSessionEvent appends one event to the session's ordered log. The
// jsonb concatenation is a single atomic document update; the end_time guard
// keeps finalized sessions immutable.
func (d *Database) AppendSessionEvent(ctx context.Context, userID, sessionID string, event models.GameEvent) error {
	payload, err := json.Marshal([]models.GameEvent{event})
	if err != nil {
		return err
	}

	res, err := d.db.ExecContext(ctx, `
		UPDATE game_sessions
		SET game_events = game_events || $3::jsonb
		WHERE user_id = $1 AND session_id = $2 AND end_time IS NULL`,
		userID, sessionID, payload)
	if err != nil {
		d.log.Error("failed to append game event", "sessionId", sessionID, "err", err)
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoActiveSession
	}
	return nil
}

// FinalizeSession performs the single Active→Finalized transition. The
// end_time IS NULL guard makes the update conditional, so of two concurrent
// finalize calls exactly one sees a row; the loser gets ErrNoActiveSession.
func (d *Database) FinalizeSession(ctx context.Context, userID, sessionID string, events []models.GameEvent, finalScore int, checksum string) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}

	res, err := d.db.ExecContext(ctx, `
		UPDATE game_sessions
		SET end_time = $3, game_events = $4, final_score = $5, verified = TRUE, checksum = $6
		WHERE user_id = $1 AND session_id = $2 AND end_time IS NULL`,
		userID, sessionID, time.Now().UTC(), payload, finalScore, checksum)
	if err != nil {
		d.log.Error("failed to finalize session", "sessionId", sessionID, "err", err)
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoActiveSession
	}

	d.log.Info("session finalized", "sessionId", sessionID, "finalScore", finalScore)
	return nil
}
