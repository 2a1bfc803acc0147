package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one browser endpoint a user subscribed for web push.
// A user can hold several (one per browser/device). The endpoint is globally
// unique: re-subscribing the same browser under another session moves the row
// to the new owner instead of duplicating it.
type PushSubscription struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dh    string    `json:"p256dh" gorm:"not null"`
	Auth      string    `json:"auth" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionStatus answers "does this user have push set up" for UI display
type SubscriptionStatus struct {
	HasSubscription bool `json:"has_subscription"`
	IsActive        bool `json:"is_active"`
}
