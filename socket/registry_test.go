package socket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureEmit(ch chan string) EmitFunc {
	return func(event string, payload interface{}) {
		ch <- event
	}
}

func TestSubscribeAndDeliver(t *testing.T) {
	r := NewRegistry()
	ch := make(chan string, 4)

	r.Subscribe("conn-1", "alice", captureEmit(ch))

	reached := r.Deliver("alice", "ping", nil)
	assert.Equal(t, 1, reached)

	select {
	case event := <-ch:
		assert.Equal(t, "ping", event)
	case <-time.After(2 * time.Second):
		t.Fatal("emit never arrived")
	}
}

func TestDeliverToUnknownUserReachesNobody(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Deliver("nobody", "ping", nil))
}

func TestSubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	ch := make(chan string, 4)

	r.Subscribe("conn-1", "alice", captureEmit(ch))
	r.Subscribe("conn-1", "alice", captureEmit(ch))

	assert.Equal(t, 1, r.Connections("alice"))
}

func TestLastJoinWins(t *testing.T) {
	r := NewRegistry()
	ch := make(chan string, 4)

	r.Subscribe("conn-1", "alice", captureEmit(ch))
	r.Subscribe("conn-1", "bob", captureEmit(ch))

	assert.Equal(t, 0, r.Connections("alice"))
	assert.Equal(t, 1, r.Connections("bob"))
	assert.False(t, r.IsOnline("alice"))
	assert.True(t, r.IsOnline("bob"))
}

func TestUnsubscribe(t *testing.T) {
	r := NewRegistry()
	ch := make(chan string, 4)

	r.Subscribe("conn-1", "alice", captureEmit(ch))
	r.Subscribe("conn-2", "alice", captureEmit(ch))
	require.Equal(t, 2, r.Connections("alice"))

	r.Unsubscribe("conn-1")
	assert.Equal(t, 1, r.Connections("alice"))

	// Unknown and repeated unsubscribes are harmless.
	r.Unsubscribe("conn-1")
	r.Unsubscribe("never-joined")
	assert.Equal(t, 1, r.Connections("alice"))
}

func TestDeliverReachesEveryConnection(t *testing.T) {
	r := NewRegistry()
	ch := make(chan string, 8)

	r.Subscribe("conn-1", "alice", captureEmit(ch))
	r.Subscribe("conn-2", "alice", captureEmit(ch))
	r.Subscribe("conn-3", "bob", captureEmit(ch))

	reached := r.Deliver("alice", "ping", nil)
	assert.Equal(t, 2, reached)

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("expected two emits")
		}
	}
	select {
	case <-ch:
		t.Fatal("bob's connection received alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConcurrentChurn(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", n)
			userID := fmt.Sprintf("user-%d", n%4)
			for j := 0; j < 100; j++ {
				r.Subscribe(connID, userID, func(string, interface{}) {})
				r.Deliver(userID, "tick", nil)
				r.Unsubscribe(connID)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, r.Connections(fmt.Sprintf("user-%d", i)))
	}
}
