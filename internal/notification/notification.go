package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"flappy-game/internal/database"
	"flappy-game/internal/models"
)

const retentionDays = 30

// Manager persists operator alerts (completed payments, rejected score
// submissions) and fans them out to any live subscribers.
type Manager struct {
	subscribers map[string]chan *models.AdminNotification
	mu          sync.RWMutex
	db          *database.Database
	log         *slog.Logger
}

func NewManager(db *database.Database, log *slog.Logger) *Manager {
	return &Manager{
		subscribers: make(map[string]chan *models.AdminNotification),
		db:          db,
		log:         log,
	}
}

func (m *Manager) Subscribe(id string) chan *models.AdminNotification {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *models.AdminNotification, 100)
	m.subscribers[id] = ch
	return ch
}

func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch, exists := m.subscribers[id]; exists {
		close(ch)
		delete(m.subscribers, id)
	}
}

// Notify persists the alert and broadcasts it to all subscribers. Slow
// subscribers are skipped rather than blocking the caller.
func (m *Manager) Notify(ctx context.Context, notif *models.AdminNotification) error {
	if err := m.db.SaveNotification(ctx, notif); err != nil {
		m.log.Error("failed to save notification", "type", notif.Type, "err", err)
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- notif:
		default:
		}
	}
	return nil
}

// RunCleanup deletes notifications past retention once a day until ctx ends.
func (m *Manager) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.db.CleanupOldNotifications(ctx, retentionDays); err != nil {
				m.log.Error("notification cleanup failed", "err", err)
			}
		}
	}
}
