package database

import (
	"context"

	"flappy-game/internal/models"
)

func (d *Database) SaveNotification(ctx context.Context, notif *models.AdminNotification) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO notifications (type, priority, message, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)`,
		notif.Type, notif.Priority, notif.Message)
	return err
}

func (d *Database) GetAdminNotifications(ctx context.Context, limit int) ([]models.AdminNotification, error) {
	notifications := []models.AdminNotification{}
	err := d.db.SelectContext(ctx, &notifications, `
		SELECT id, type, priority, message, read, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (d *Database) MarkNotificationRead(ctx context.Context, notificationID int) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1`, notificationID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) CleanupOldNotifications(ctx context.Context, days int) error {
	_, err := d.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE created_at < NOW() - INTERVAL '1 day' * $1`, days)
	return err
}
