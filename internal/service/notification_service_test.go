package service

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporinapp/laporin/internal/model"
)

// fakeNotificationStore mimics the feed semantics of the real repository:
// the whole feed is derived from one consistent snapshot.
type fakeNotificationStore struct {
	rows map[uuid.UUID]*model.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{rows: make(map[uuid.UUID]*model.Notification)}
}

func (f *fakeNotificationStore) add(userID uuid.UUID, read bool, createdAt time.Time) uuid.UUID {
	n := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "t",
		Category:  model.NotificationCategoryReport,
		IsRead:    read,
		CreatedAt: createdAt,
	}
	f.rows[n.ID] = n
	return n.ID
}

func (f *fakeNotificationStore) Feed(userID uuid.UUID) (*model.NotificationFeed, error) {
	feed := &model.NotificationFeed{
		Recent: []model.Notification{},
		All:    []model.Notification{},
		Unread: []model.Notification{},
		Read:   []model.Notification{},
	}
	var mine []model.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			mine = append(mine, *n)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	for _, n := range mine {
		feed.All = append(feed.All, n)
		if n.IsRead {
			feed.Read = append(feed.Read, n)
		} else {
			feed.Unread = append(feed.Unread, n)
			if len(feed.Recent) < 5 {
				feed.Recent = append(feed.Recent, n)
			}
		}
	}
	feed.Counts = model.NotificationCounts{
		Total:  int64(len(feed.All)),
		Unread: int64(len(feed.Unread)),
		Read:   int64(len(feed.Read)),
	}
	return feed, nil
}

func (f *fakeNotificationStore) MarkRead(id uuid.UUID) error {
	if n, ok := f.rows[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(userID uuid.UUID) error {
	for _, n := range f.rows {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) ClearRead(userID uuid.UUID) error {
	for id, n := range f.rows {
		if n.UserID == userID && n.IsRead {
			delete(f.rows, id)
		}
	}
	return nil
}

// fakeRegistry keeps one subscription state per user
type fakeRegistry struct {
	byUser map[uuid.UUID]*model.PushSubscription
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{byUser: make(map[uuid.UUID]*model.PushSubscription)}
}

func (f *fakeRegistry) Upsert(userID uuid.UUID, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	sub := &model.PushSubscription{
		ID:       uuid.New(),
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
		IsActive: true,
	}
	f.byUser[userID] = sub
	return sub, nil
}

func (f *fakeRegistry) SetActive(userID uuid.UUID, active bool) error {
	if sub, ok := f.byUser[userID]; ok {
		sub.IsActive = active
	}
	return nil
}

func (f *fakeRegistry) StatusFor(userID uuid.UUID) (*model.SubscriptionStatus, error) {
	sub, ok := f.byUser[userID]
	if !ok {
		return &model.SubscriptionStatus{}, nil
	}
	return &model.SubscriptionStatus{HasSubscription: true, IsActive: sub.IsActive}, nil
}

func TestFeedCountsStayConsistent(t *testing.T) {
	store := newFakeNotificationStore()
	user := uuid.New()
	now := time.Now()
	for i := 0; i < 7; i++ {
		store.add(user, false, now.Add(time.Duration(i)*time.Minute))
	}
	store.add(user, true, now)
	store.add(uuid.New(), false, now) // someone else's row

	svc := NewNotificationService(store, newFakeRegistry())
	feed, err := svc.Feed(user)
	require.NoError(t, err)

	assert.Equal(t, int64(8), feed.Counts.Total)
	assert.Equal(t, int64(7), feed.Counts.Unread)
	assert.Equal(t, int64(1), feed.Counts.Read)
	assert.Equal(t, feed.Counts.Total, feed.Counts.Unread+feed.Counts.Read)
	// Recent caps at 5 unread, newest first
	require.Len(t, feed.Recent, 5)
	for i := 1; i < len(feed.Recent); i++ {
		assert.False(t, feed.Recent[i].CreatedAt.After(feed.Recent[i-1].CreatedAt))
	}
}

func TestMarkAllReadZeroesUnread(t *testing.T) {
	store := newFakeNotificationStore()
	user := uuid.New()
	for i := 0; i < 4; i++ {
		store.add(user, false, time.Now())
	}

	svc := NewNotificationService(store, newFakeRegistry())
	require.NoError(t, svc.MarkAllRead(user))
	// Idempotent
	require.NoError(t, svc.MarkAllRead(user))

	feed, err := svc.Feed(user)
	require.NoError(t, err)
	assert.Zero(t, feed.Counts.Unread)
	assert.Equal(t, int64(4), feed.Counts.Read)
}

func TestClearReadLeavesUnreadAlone(t *testing.T) {
	store := newFakeNotificationStore()
	user := uuid.New()
	store.add(user, true, time.Now())
	store.add(user, true, time.Now())
	unread := store.add(user, false, time.Now())

	svc := NewNotificationService(store, newFakeRegistry())
	require.NoError(t, svc.ClearRead(user))

	feed, err := svc.Feed(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), feed.Counts.Total)
	assert.Equal(t, unread, feed.All[0].ID)
}

func TestSubscriptionLifecycle(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationStore(), newFakeRegistry())
	user := uuid.New()

	status, err := svc.SubscriptionStatus(user)
	require.NoError(t, err)
	assert.False(t, status.HasSubscription)

	sub, err := svc.Subscribe(user, "https://push.example/ep", "p256dh", "auth")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)

	// Opt out keeps the row, flips the flag
	require.NoError(t, svc.SetPushEnabled(user, false))
	status, err = svc.SubscriptionStatus(user)
	require.NoError(t, err)
	assert.True(t, status.HasSubscription)
	assert.False(t, status.IsActive)

	// Opt back in
	require.NoError(t, svc.SetPushEnabled(user, true))
	status, err = svc.SubscriptionStatus(user)
	require.NoError(t, err)
	assert.True(t, status.IsActive)
}
