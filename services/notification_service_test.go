package services

import (
	"context"
	"testing"
	"time"

	"sangam_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyPersistsWithoutConnections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	notification, err := env.notifications.Notify(ctx, "alice", "bob", models.NotificationTypeInterest, "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, notification.NotificationID)
	assert.False(t, notification.IsRead)

	listed, err := env.notifications.ListForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, notification.NotificationID, listed[0].NotificationID)
}

func TestNotifyReachesEveryConnection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.subscribeCapture("conn-1", "bob")
	second := env.subscribeCapture("conn-2", "bob")
	other := env.subscribeCapture("conn-3", "carol")

	_, err := env.notifications.Notify(ctx, "alice", "bob", models.NotificationTypeMessage, "ping")
	require.NoError(t, err)

	for _, ch := range []<-chan emittedEvent{first, second} {
		ev := waitForEvent(t, ch)
		assert.Equal(t, models.EventNewNotification, ev.event)
		payload, ok := ev.payload.(models.NewNotificationEvent)
		require.True(t, ok)
		assert.Equal(t, "ping", payload.Text)
	}

	select {
	case ev := <-other:
		t.Fatalf("carol received an event meant for bob: %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifyValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.notifications.Notify(context.Background(), "", "bob", models.NotificationTypeMessage, "x")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = env.notifications.Notify(context.Background(), "alice", "bob", "", "x")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestListForUserNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, text := range []string{"oldest", "middle", "newest"} {
		_, err := env.notifications.Notify(ctx, "alice", "bob", models.NotificationTypeMessage, text)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	listed, err := env.notifications.ListForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "newest", listed[0].Text)
	assert.Equal(t, "oldest", listed[2].Text)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.notifications.Notify(ctx, "alice", "bob", models.NotificationTypeMessage, "one")
	require.NoError(t, err)
	_, err = env.notifications.Notify(ctx, "carol", "bob", models.NotificationTypeInterest, "two")
	require.NoError(t, err)

	modified, err := env.notifications.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, modified)

	// Already-read notifications are left alone on the second pass.
	modified, err = env.notifications.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, modified)

	listed, err := env.notifications.ListForUser(ctx, "bob")
	require.NoError(t, err)
	for _, notification := range listed {
		assert.True(t, notification.IsRead)
	}
}

func TestDeleteNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	notification, err := env.notifications.Notify(ctx, "alice", "bob", models.NotificationTypeMessage, "bye")
	require.NoError(t, err)

	require.NoError(t, env.notifications.Delete(ctx, "bob", notification.NotificationID))

	listed, err := env.notifications.ListForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, listed)

	err = env.notifications.Delete(ctx, "bob", notification.NotificationID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
