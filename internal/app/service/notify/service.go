package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/internal/platform/push"
	"github.com/rioporto/p2p/pkg/tool"
)

const (
	pushAttempts  = 3
	pushBaseDelay = 250 * time.Millisecond
	pushTimeout   = 5 * time.Second
)

// Service persists in-app notifications and dispatches push events. Row
// creation is synchronous and participates in the caller's transaction; push
// delivery is best-effort and never blocks or fails the primary operation.
type Service struct {
	db       *gorm.DB
	notifier push.Notifier
	log      *zap.SugaredLogger
}

func New(db *gorm.DB, notifier push.Notifier, log *zap.SugaredLogger) *Service {
	return &Service{db: db, notifier: notifier, log: log}
}

// Create inserts the notification row on tx.
func (s *Service) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	if n == nil {
		return fmt.Errorf("nil notification")
	}
	if n.ID == "" {
		n.ID = tool.GenerateUUIDV7()
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Push publishes the notification to the recipient's private channel. Failures
// are retried with backoff and then logged; they are never surfaced to the
// caller. Call only after the owning database transaction has committed.
func (s *Service) Push(n *models.Notification) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()

		channel := push.UserChannel(n.UserID)
		delay := pushBaseDelay
		var err error
		for attempt := 1; attempt <= pushAttempts; attempt++ {
			err = s.notifier.Publish(ctx, channel, string(n.Type), n)
			if err == nil {
				return
			}
			if attempt < pushAttempts {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					err = ctx.Err()
					attempt = pushAttempts
				}
				delay *= 2
			}
		}
		s.log.Warnw("push_dispatch_failed",
			"channel", channel,
			"type", n.Type,
			"notification_id", n.ID,
			"err", err,
		)
	}()
}

// ListForUser returns the recipient's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var items []*models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkRead toggles the read flag. Recipient-scoped so one user cannot touch
// another's feed.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(New),
)
