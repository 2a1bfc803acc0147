package service

import (
	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
)

// NotificationStore is the read-state side of the notification table
type NotificationStore interface {
	Feed(userID uuid.UUID) (*model.NotificationFeed, error)
	MarkRead(id uuid.UUID) error
	MarkAllRead(userID uuid.UUID) error
	ClearRead(userID uuid.UUID) error
}

// SubscriptionRegistry is the full registry surface the REST layer exposes
type SubscriptionRegistry interface {
	Upsert(userID uuid.UUID, endpoint, p256dh, auth string) (*model.PushSubscription, error)
	SetActive(userID uuid.UUID, active bool) error
	StatusFor(userID uuid.UUID) (*model.SubscriptionStatus, error)
}

// NotificationService fronts the read-state store and subscription lifecycle
type NotificationService struct {
	store NotificationStore
	subs  SubscriptionRegistry
}

func NewNotificationService(store NotificationStore, subs SubscriptionRegistry) *NotificationService {
	return &NotificationService{store: store, subs: subs}
}

// Feed returns the batched bell read for a user
func (s *NotificationService) Feed(userID uuid.UUID) (*model.NotificationFeed, error) {
	return s.store.Feed(userID)
}

// MarkRead marks one notification read (idempotent)
func (s *NotificationService) MarkRead(id uuid.UUID) error {
	return s.store.MarkRead(id)
}

// MarkAllRead marks everything read for a user (idempotent, zero rows ok)
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.store.MarkAllRead(userID)
}

// ClearRead deletes all read notifications for a user
func (s *NotificationService) ClearRead(userID uuid.UUID) error {
	return s.store.ClearRead(userID)
}

// Subscribe upserts a browser push subscription for the user
func (s *NotificationService) Subscribe(userID uuid.UUID, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	return s.subs.Upsert(userID, endpoint, p256dh, auth)
}

// SetPushEnabled bulk-toggles all of a user's subscriptions. Opt-out
// deactivates rather than deletes so opting back in is instant.
func (s *NotificationService) SetPushEnabled(userID uuid.UUID, enabled bool) error {
	return s.subs.SetActive(userID, enabled)
}

// SubscriptionStatus reports push setup state for UI display
func (s *NotificationService) SubscriptionStatus(userID uuid.UUID) (*model.SubscriptionStatus, error) {
	return s.subs.StatusFor(userID)
}
