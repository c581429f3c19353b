package services

import (
	"context"
	"testing"
	"time"

	"sangam_server/models"
	"sangam_server/socket"

	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one fakeDynamo and one registry, the
// same way main wires them against the real client.
type testEnv struct {
	fake     *fakeDynamo
	dynamo   *DynamoService
	registry *socket.Registry

	profiles      *UserProfileService
	notifications *NotificationService
	messages      *MessageService
	likes         *LikeService
	interests     *InterestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := newFakeDynamo()
	dynamo := &DynamoService{Client: fake}
	registry := socket.NewRegistry()

	profiles := &UserProfileService{Dynamo: dynamo}
	notifications := &NotificationService{Dynamo: dynamo, Registry: registry}
	return &testEnv{
		fake:          fake,
		dynamo:        dynamo,
		registry:      registry,
		profiles:      profiles,
		notifications: notifications,
		messages:      &MessageService{Dynamo: dynamo, Notifications: notifications, Registry: registry},
		likes:         &LikeService{Dynamo: dynamo, Profiles: profiles},
		interests:     &InterestService{Dynamo: dynamo, Notifications: notifications, Profiles: profiles},
	}
}

func (e *testEnv) seedProfile(t *testing.T, userID, name string) {
	t.Helper()
	err := e.dynamo.PutItem(context.Background(), models.UserProfilesTable, models.UserProfile{
		UserID: userID,
		Name:   name,
	})
	require.NoError(t, err)
}

// emittedEvent captures one socket emit for assertions.
type emittedEvent struct {
	event   string
	payload interface{}
}

// subscribeCapture registers a connection whose emits land on the returned
// channel.
func (e *testEnv) subscribeCapture(connID, userID string) <-chan emittedEvent {
	ch := make(chan emittedEvent, 16)
	e.registry.Subscribe(connID, userID, func(event string, payload interface{}) {
		ch <- emittedEvent{event: event, payload: payload}
	})
	return ch
}

func waitForEvent(t *testing.T, ch <-chan emittedEvent) emittedEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for socket event")
		return emittedEvent{}
	}
}
