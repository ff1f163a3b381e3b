package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// SettingsRepository is the in-memory ISettingsRepository
type SettingsRepository struct {
	db *DB
}

func (r *SettingsRepository) Get(_ context.Context) (*models.Settings, error) {
	var s *models.Settings
	r.db.read(func(d *data) {
		if d.settings != nil {
			c := *d.settings
			s = &c
		}
	})
	if s == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	return s, nil
}

func (r *SettingsRepository) Save(_ context.Context, s *models.Settings) error {
	return r.db.write("settings.save", func(d *data) error {
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = r.db.now()
		}
		c := *s
		d.settings = &c
		return nil
	})
}

// NotificationRepository is the in-memory INotificationRepository
type NotificationRepository struct {
	db *DB
}

func (r *NotificationRepository) Create(_ context.Context, n *models.Notification) error {
	return r.db.write("notifications.create", func(d *data) error {
		n.ID = d.nextID()
		n.CreatedAt = r.db.now()
		d.notifications[n.ID] = *n
		return nil
	})
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID int64, limit int) ([]*models.Notification, error) {
	notifications := make([]*models.Notification, 0)
	r.db.read(func(d *data) {
		for _, n := range d.notifications {
			if n.UserID == userID {
				n := n
				notifications = append(notifications, &n)
			}
		}
	})
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return paginate(notifications, 0, limit), nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, userID int64) error {
	return r.db.write("notifications.mark_read", func(d *data) error {
		n, ok := d.notifications[id]
		if !ok || n.UserID != userID {
			return apperrors.ErrNotificationNotFound
		}
		n.IsRead = true
		d.notifications[id] = n
		return nil
	})
}

// TokenRepository is the in-memory ITokenRepository
type TokenRepository struct {
	db *DB
}

func (r *TokenRepository) Revoke(_ context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	return r.db.write("tokens.revoke", func(d *data) error {
		if _, ok := d.revoked[tokenID]; !ok {
			d.revoked[tokenID] = revocation{userID: userID, expiresAt: expiresAt}
		}
		return nil
	})
}

func (r *TokenRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if err := r.db.checkFault("tokens.is_revoked"); err != nil {
		return false, err
	}
	var revoked bool
	r.db.read(func(d *data) { _, revoked = d.revoked[tokenID] })
	return revoked, nil
}

func (r *TokenRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.db.write("tokens.purge", func(d *data) error {
		for id, rev := range d.revoked {
			if rev.expiresAt.Before(now) {
				delete(d.revoked, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}
