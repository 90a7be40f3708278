package database

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"flappy-game/internal/models"
)

// UpsertBestScore records a verified score if it beats the user's stored
// best. The conditional upsert is a no-op for equal or lower scores, which
// makes repeated submissions idempotent. Returns whether the row changed.
func (d *Database) UpsertBestScore(ctx context.Context, userID string, score int, sessionID string) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO scores (user_id, score, session_id, verified, created_at)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET score = EXCLUDED.score, session_id = EXCLUDED.session_id, created_at = EXCLUDED.created_at
		WHERE scores.score < EXCLUDED.score`,
		userID, score, sessionID, time.Now().UTC())
	if err != nil {
		d.log.Error("failed to upsert best score", "userId", userID, "err", err)
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	// Keep the denormalized copy on the user row in step.
	_, err = d.db.ExecContext(ctx, `
		UPDATE users SET high_score = $2 WHERE id = $1 AND high_score < $2`,
		userID, score)
	return true, err
}

// GetBestScore returns the user's stored best, or ErrNotFound.
func (d *Database) GetBestScore(ctx context.Context, userID string) (*models.Score, error) {
	var s models.Score
	err := d.db.GetContext(ctx, &s, `
		SELECT user_id, score, session_id, verified, created_at
		FROM scores WHERE user_id = $1`, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &s, nil
}

// GetLeaderboard returns the top entries for the rolling windows the client
// shows on its leaderboard screen.
func (d *Database) GetLeaderboard(ctx context.Context, limit int) (*models.Leaderboard, error) {
	lb := &models.Leaderboard{
		Today:      []models.LeaderboardEntry{},
		Last7Days:  []models.LeaderboardEntry{},
		Last30Days: []models.LeaderboardEntry{},
	}

	windows := []struct {
		dest  *[]models.LeaderboardEntry
		since time.Duration
	}{
		{&lb.Today, 24 * time.Hour},
		{&lb.Last7Days, 7 * 24 * time.Hour},
		{&lb.Last30Days, 30 * 24 * time.Hour},
	}

	for _, w := range windows {
		query, args, err := d.sq.Select("u.name AS username", "s.score").
			From("scores s").
			Join("users u ON u.id = s.user_id").
			Where(sq.GtOrEq{"s.created_at": time.Now().UTC().Add(-w.since)}).
			OrderBy("s.score DESC").
			Limit(uint64(limit)).
			ToSql()
		if err != nil {
			return nil, err
		}
		if err := d.db.SelectContext(ctx, w.dest, query, args...); err != nil {
			return nil, err
		}
	}
	return lb, nil
}

// GetPersonalScores returns the caller's recorded scores, best first.
func (d *Database) GetPersonalScores(ctx context.Context, userID string, limit int) ([]models.PersonalScore, error) {
	scores := []models.PersonalScore{}
	err := d.db.SelectContext(ctx, &scores, `
		SELECT score, created_at FROM scores
		WHERE user_id = $1
		ORDER BY score DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// ArchivedScore is one row of the retention export.
type ArchivedScore struct {
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// GetScoresOlderThan lists score rows due for archival.
func (d *Database) GetScoresOlderThan(ctx context.Context, cutoff time.Time) ([]ArchivedScore, error) {
	scores := []ArchivedScore{}
	err := d.db.SelectContext(ctx, &scores, `
		SELECT u.name AS username, COALESCE(u.email, '') AS email, s.score, s.created_at
		FROM scores s
		JOIN users u ON u.id = s.user_id
		WHERE s.created_at < $1
		ORDER BY s.created_at`, cutoff)
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// DeleteScoresOlderThan removes archived rows and reports how many.
func (d *Database) DeleteScoresOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM scores WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
