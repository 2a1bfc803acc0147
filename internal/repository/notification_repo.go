package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laporinapp/laporin/internal/model"
)

// NotificationRepository handles database operations for Notification
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatch inserts one notification row per recipient in a single statement
func (r *NotificationRepository) CreateBatch(notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

// Feed runs the six bell queries inside one transaction so the counts are
// consistent with each other; total always equals unread + read within one
// call even while new notifications are arriving.
func (r *NotificationRepository) Feed(userID uuid.UUID) (*model.NotificationFeed, error) {
	feed := &model.NotificationFeed{
		Recent: []model.Notification{},
		All:    []model.Notification{},
		Unread: []model.Notification{},
		Read:   []model.Notification{},
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND is_read = ?", userID, false).
			Order("created_at DESC").
			Limit(5).
			Find(&feed.Recent).Error; err != nil {
			return err
		}

		// Unread first, then newest inside each group
		if err := tx.
			Where("user_id = ?", userID).
			Order("is_read ASC, created_at DESC").
			Find(&feed.All).Error; err != nil {
			return err
		}

		if err := tx.
			Where("user_id = ? AND is_read = ?", userID, false).
			Order("created_at DESC").
			Find(&feed.Unread).Error; err != nil {
			return err
		}

		if err := tx.
			Where("user_id = ? AND is_read = ?", userID, true).
			Order("created_at DESC").
			Find(&feed.Read).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Notification{}).
			Where("user_id = ?", userID).
			Count(&feed.Counts.Total).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Count(&feed.Counts.Unread).Error; err != nil {
			return err
		}
		feed.Counts.Read = feed.Counts.Total - feed.Counts.Unread
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}

// MarkRead flips one notification to read; already-read rows are a no-op
func (r *NotificationRepository) MarkRead(id uuid.UUID) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllRead flips every unread notification for a user; zero rows is fine
func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// ClearRead deletes every already-read notification for a user
func (r *NotificationRepository) ClearRead(userID uuid.UUID) error {
	return r.db.
		Where("user_id = ? AND is_read = ?", userID, true).
		Delete(&model.Notification{}).Error
}
