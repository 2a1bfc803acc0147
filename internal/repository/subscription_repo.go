package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laporinapp/laporin/internal/model"
)

// SubscriptionRepository handles database operations for PushSubscription.
// Registry operations are pure persistence calls; nothing here talks to the
// push provider.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert inserts or refreshes a subscription keyed by endpoint. Re-subscribing
// the same browser endpoint under another session reassigns the owner and
// reactivates the row.
func (r *SubscriptionRepository) Upsert(userID uuid.UUID, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	sub := model.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
		IsActive: true,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id":    userID,
			"p256dh":     p256dh,
			"auth":       auth,
			"is_active":  true,
			"updated_at": time.Now(),
		}),
	}).Create(&sub).Error
	if err != nil {
		return nil, err
	}

	// Reload so the caller sees the surviving row, not the insert candidate
	var saved model.PushSubscription
	if err := r.db.Where("endpoint = ?", endpoint).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListActiveByUsers returns every active subscription owned by the given users
func (r *SubscriptionRepository) ListActiveByUsers(userIDs []uuid.UUID) ([]model.PushSubscription, error) {
	subs := []model.PushSubscription{}
	if len(userIDs) == 0 {
		return subs, nil
	}
	err := r.db.
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Find(&subs).Error
	return subs, err
}

// SetActive toggles all of a user's subscriptions (global opt-out/opt-in)
func (r *SubscriptionRepository) SetActive(userID uuid.UUID, active bool) error {
	return r.db.Model(&model.PushSubscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		}).Error
}

// DeleteByEndpoint removes a subscription the provider reported as gone
func (r *SubscriptionRepository) DeleteByEndpoint(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error
}

// StatusFor reports whether the user has at least one subscription row and
// whether any of them is active, for UI display.
func (r *SubscriptionRepository) StatusFor(userID uuid.UUID) (*model.SubscriptionStatus, error) {
	var total, active int64
	if err := r.db.Model(&model.PushSubscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.PushSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&active).Error; err != nil {
		return nil, err
	}
	return &model.SubscriptionStatus{
		HasSubscription: total > 0,
		IsActive:        active > 0,
	}, nil
}
