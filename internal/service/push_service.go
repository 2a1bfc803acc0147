package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/pkg/webpush"
)

// maxConcurrentPushes bounds parallel provider calls per fan-out
const maxConcurrentPushes = 8

// SubscriptionStore is the slice of the subscription registry the engine uses
type SubscriptionStore interface {
	ListActiveByUsers(userIDs []uuid.UUID) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// NotificationWriter persists the per-recipient in-app records
type NotificationWriter interface {
	CreateBatch(notifications []model.Notification) error
}

// RoleDirectory resolves broadcast recipient sets
type RoleDirectory interface {
	IDsByRole(role model.Role) ([]uuid.UUID, error)
}

// PushService is the fan-out engine: one payload in, many endpoints out, one
// in-app notification row per recipient regardless of what the endpoints did.
type PushService struct {
	subs   SubscriptionStore
	notifs NotificationWriter
	users  RoleDirectory
	sender webpush.Sender
}

// NewPushService creates the fan-out engine. sender may be nil when VAPID keys
// are not configured; in-app notifications are still recorded.
func NewPushService(subs SubscriptionStore, notifs NotificationWriter, users RoleDirectory, sender webpush.Sender) *PushService {
	return &PushService{
		subs:   subs,
		notifs: notifs,
		users:  users,
		sender: sender,
	}
}

// Notify fans a payload out to every active endpoint of the recipients and
// records one notification per recipient. Endpoint failures never fail the
// call; only recipient resolution and the notification write can.
func (s *PushService) Notify(ctx context.Context, recipients []uuid.UUID, category model.NotificationCategory, payload model.PushPayload) (model.DispatchResult, error) {
	var result model.DispatchResult

	recipients = dedupe(recipients)
	if len(recipients) == 0 {
		return result, nil
	}

	subs, err := s.subs.ListActiveByUsers(recipients)
	if err != nil {
		return result, fmt.Errorf("failed to resolve subscriptions: %w", err)
	}

	// Zero live endpoints is not an error: the in-app record below is not
	// contingent on push delivery.
	if len(subs) > 0 && s.sender != nil {
		result = s.dispatch(ctx, subs, payload)
	}

	notifications := make([]model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, model.Notification{
			UserID:   userID,
			Title:    payload.Title,
			Body:     payload.Body,
			ClickURL: payload.ClickURL,
			Category: category,
		})
	}
	if err := s.notifs.CreateBatch(notifications); err != nil {
		return result, fmt.Errorf("failed to record notifications: %w", err)
	}

	return result, nil
}

// NotifyRole resolves the recipient set by role, then delegates to Notify
func (s *PushService) NotifyRole(ctx context.Context, role model.Role, category model.NotificationCategory, payload model.PushPayload) (model.DispatchResult, error) {
	recipients, err := s.users.IDsByRole(role)
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("failed to resolve %s recipients: %w", role, err)
	}
	return s.Notify(ctx, recipients, category, payload)
}

// dispatch attempts delivery to every subscription, bounded-parallel. Each
// attempt is independent: one endpoint's failure never aborts the others.
func (s *PushService) dispatch(ctx context.Context, subs []model.PushSubscription, payload model.PushPayload) model.DispatchResult {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️  Push payload not serializable: %v", err)
		return model.DispatchResult{}
	}

	var (
		mu     sync.Mutex
		result model.DispatchResult
		wg     sync.WaitGroup
		sem    = make(chan struct{}, maxConcurrentPushes)
	)

	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.PushSubscription) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome, sendErr := s.sender.Send(ctx, sub, body)
			switch outcome {
			case webpush.OutcomeDelivered:
				mu.Lock()
				result.Delivered++
				mu.Unlock()

			case webpush.OutcomeGone:
				// Pruning is cleanup, not correctness: log and move on if the
				// delete itself fails.
				if delErr := s.subs.DeleteByEndpoint(sub.Endpoint); delErr != nil {
					log.Printf("⚠️  Failed to prune dead endpoint %s: %v", truncateEndpoint(sub.Endpoint), delErr)
					return
				}
				log.Printf("🧹 Pruned dead push endpoint %s", truncateEndpoint(sub.Endpoint))
				mu.Lock()
				result.Pruned++
				mu.Unlock()

			case webpush.OutcomeTransient:
				// Kept as-is; no retry, no quarantine
				log.Printf("⚠️  Transient push failure for %s: %v", truncateEndpoint(sub.Endpoint), sendErr)
			}
		}(sub)
	}
	wg.Wait()

	return result
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func truncateEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50] + "..."
	}
	return endpoint
}
