package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/pkg/webpush"
)

// fakeSubscriptionStore keeps subscriptions in memory and records prunes
type fakeSubscriptionStore struct {
	mu      sync.Mutex
	subs    []model.PushSubscription
	listErr error
	delErr  error
	pruned  []string
}

func (f *fakeSubscriptionStore) ListActiveByUsers(userIDs []uuid.UUID) ([]model.PushSubscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []model.PushSubscription
	for _, s := range f.subs {
		if s.IsActive && want[s.UserID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionStore) DeleteByEndpoint(endpoint string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subs[:0]
	for _, s := range f.subs {
		if s.Endpoint != endpoint {
			kept = append(kept, s)
		}
	}
	f.subs = kept
	f.pruned = append(f.pruned, endpoint)
	return nil
}

// fakeNotificationWriter records the batches it was asked to persist
type fakeNotificationWriter struct {
	mu      sync.Mutex
	err     error
	batches [][]model.Notification
}

func (f *fakeNotificationWriter) CreateBatch(notifications []model.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, notifications)
	return nil
}

func (f *fakeNotificationWriter) rows() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.Notification
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

type fakeRoleDirectory struct {
	ids []uuid.UUID
	err error
}

func (f *fakeRoleDirectory) IDsByRole(role model.Role) ([]uuid.UUID, error) {
	return f.ids, f.err
}

// scriptedSender returns a per-endpoint outcome and counts attempts
type scriptedSender struct {
	mu       sync.Mutex
	outcomes map[string]webpush.Outcome
	attempts []string
}

func (s *scriptedSender) Send(ctx context.Context, sub model.PushSubscription, payload []byte) (webpush.Outcome, error) {
	s.mu.Lock()
	s.attempts = append(s.attempts, sub.Endpoint)
	s.mu.Unlock()
	outcome, ok := s.outcomes[sub.Endpoint]
	if !ok {
		return webpush.OutcomeDelivered, nil
	}
	if outcome == webpush.OutcomeDelivered {
		return outcome, nil
	}
	return outcome, errors.New("push service said no")
}

func (s *scriptedSender) attempted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.attempts...)
}

func sub(userID uuid.UUID, endpoint string, active bool) model.PushSubscription {
	return model.PushSubscription{
		ID:       uuid.New(),
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
		IsActive: active,
	}
}

func TestNotifyDispatchesOnlyActiveSubscriptions(t *testing.T) {
	user := uuid.New()
	store := &fakeSubscriptionStore{subs: []model.PushSubscription{
		sub(user, "https://push.example/active-1", true),
		sub(user, "https://push.example/active-2", true),
		sub(user, "https://push.example/disabled", false),
	}}
	writer := &fakeNotificationWriter{}
	sender := &scriptedSender{}

	svc := NewPushService(store, writer, &fakeRoleDirectory{}, sender)
	result, err := svc.Notify(context.Background(), []uuid.UUID{user}, model.NotificationCategoryReport, model.PushPayload{Title: "t"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	assert.ElementsMatch(t, []string{"https://push.example/active-1", "https://push.example/active-2"}, sender.attempted())
}

func TestNotifyWritesOneRowPerRecipientRegardlessOfEndpoints(t *testing.T) {
	noDevices := uuid.New()
	twoDevices := uuid.New()
	store := &fakeSubscriptionStore{subs: []model.PushSubscription{
		sub(twoDevices, "https://push.example/a", true),
		sub(twoDevices, "https://push.example/b", true),
	}}
	writer := &fakeNotificationWriter{}
	svc := NewPushService(store, writer, &fakeRoleDirectory{}, &scriptedSender{})

	// Duplicate recipient must not produce a duplicate row
	recipients := []uuid.UUID{noDevices, twoDevices, twoDevices}
	_, err := svc.Notify(context.Background(), recipients, model.NotificationCategoryReport, model.PushPayload{Title: "t", Body: "b", ClickURL: "/r/1"})
	require.NoError(t, err)

	rows := writer.rows()
	require.Len(t, rows, 2)
	byUser := make(map[uuid.UUID]model.Notification)
	for _, n := range rows {
		byUser[n.UserID] = n
	}
	assert.Contains(t, byUser, noDevices)
	assert.Contains(t, byUser, twoDevices)
	assert.Equal(t, "t", byUser[noDevices].Title)
	assert.Equal(t, "/r/1", byUser[noDevices].ClickURL)
	assert.Equal(t, model.NotificationCategoryReport, byUser[noDevices].Category)
}

func TestNotifyPrunesPermanentlyDeadEndpoints(t *testing.T) {
	user := uuid.New()
	dead := "https://push.example/gone"
	alive := "https://push.example/alive"
	store := &fakeSubscriptionStore{subs: []model.PushSubscription{
		sub(user, dead, true),
		sub(user, alive, true),
	}}
	writer := &fakeNotificationWriter{}
	sender := &scriptedSender{outcomes: map[string]webpush.Outcome{dead: webpush.OutcomeGone}}

	svc := NewPushService(store, writer, &fakeRoleDirectory{}, sender)
	result, err := svc.Notify(context.Background(), []uuid.UUID{user}, model.NotificationCategoryReport, model.PushPayload{Title: "t"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 1, result.Pruned)
	assert.Equal(t, []string{dead}, store.pruned)

	// The pruned endpoint no longer resolves for the next fan-out
	remaining, err := store.ListActiveByUsers([]uuid.UUID{user})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, alive, remaining[0].Endpoint)
}

func TestNotifyTransientFailureDoesNotFailTheCall(t *testing.T) {
	user := uuid.New()
	flaky := "https://push.example/flaky"
	store := &fakeSubscriptionStore{subs: []model.PushSubscription{
		sub(user, flaky, true),
		sub(user, "https://push.example/fine", true),
	}}
	writer := &fakeNotificationWriter{}
	sender := &scriptedSender{outcomes: map[string]webpush.Outcome{flaky: webpush.OutcomeTransient}}

	svc := NewPushService(store, writer, &fakeRoleDirectory{}, sender)
	result, err := svc.Notify(context.Background(), []uuid.UUID{user}, model.NotificationCategoryReport, model.PushPayload{Title: "t"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Zero(t, result.Pruned)
	// Transient endpoint stays registered
	assert.Empty(t, store.pruned)
	assert.Len(t, writer.rows(), 1)
}

func TestNotifyPropagatesResolutionAndWriteFailures(t *testing.T) {
	user := uuid.New()

	t.Run("subscription lookup failure", func(t *testing.T) {
		store := &fakeSubscriptionStore{listErr: errors.New("db down")}
		svc := NewPushService(store, &fakeNotificationWriter{}, &fakeRoleDirectory{}, &scriptedSender{})
		_, err := svc.Notify(context.Background(), []uuid.UUID{user}, model.NotificationCategoryReport, model.PushPayload{})
		assert.Error(t, err)
	})

	t.Run("notification write failure", func(t *testing.T) {
		writer := &fakeNotificationWriter{err: errors.New("insert failed")}
		svc := NewPushService(&fakeSubscriptionStore{}, writer, &fakeRoleDirectory{}, &scriptedSender{})
		_, err := svc.Notify(context.Background(), []uuid.UUID{user}, model.NotificationCategoryReport, model.PushPayload{})
		assert.Error(t, err)
	})
}

func TestNotifyNilSenderStillRecordsNotifications(t *testing.T) {
	user := uuid.New()
	store := &fakeSubscriptionStore{subs: []model.PushSubscription{
		sub(user, "https://push.example/a", true),
	}}
	writer := &fakeNotificationWriter{}

	svc := NewPushService(store, writer, &fakeRoleDirectory{}, nil)
	result, err := svc.Notify(context.Background(), []uuid.UUID{user}, model.NotificationCategoryAnnouncement, model.PushPayload{Title: "t"})

	require.NoError(t, err)
	assert.Zero(t, result.Delivered)
	assert.Len(t, writer.rows(), 1)
}

func TestNotifyRoleResolvesRecipients(t *testing.T) {
	citizens := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	writer := &fakeNotificationWriter{}
	svc := NewPushService(&fakeSubscriptionStore{}, writer, &fakeRoleDirectory{ids: citizens}, &scriptedSender{})

	_, err := svc.NotifyRole(context.Background(), model.RoleCitizen, model.NotificationCategoryAnnouncement, model.PushPayload{Title: "pengumuman"})
	require.NoError(t, err)
	assert.Len(t, writer.rows(), len(citizens))
}

func TestNotifyRoleDirectoryFailure(t *testing.T) {
	svc := NewPushService(&fakeSubscriptionStore{}, &fakeNotificationWriter{}, &fakeRoleDirectory{err: errors.New("no such role")}, &scriptedSender{})
	_, err := svc.NotifyRole(context.Background(), model.RoleCitizen, model.NotificationCategoryAnnouncement, model.PushPayload{})
	assert.Error(t, err)
}

func TestNotifyEmptyRecipients(t *testing.T) {
	writer := &fakeNotificationWriter{}
	svc := NewPushService(&fakeSubscriptionStore{}, writer, &fakeRoleDirectory{}, &scriptedSender{})

	result, err := svc.Notify(context.Background(), nil, model.NotificationCategoryReport, model.PushPayload{})
	require.NoError(t, err)
	assert.Zero(t, result.Delivered)
	assert.Empty(t, writer.rows())
}
