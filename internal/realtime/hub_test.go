package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePubSub records publishes and subscription lifecycle in memory.
type fakePubSub struct {
	published []string
	handlers  map[uuid.UUID]func(event string, payload []byte)
	cancelled map[uuid.UUID]bool
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{
		handlers:  make(map[uuid.UUID]func(event string, payload []byte)),
		cancelled: make(map[uuid.UUID]bool),
	}
}

func (f *fakePubSub) PublishPollEvent(pollID uuid.UUID, event string, payload []byte) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakePubSub) SubscribePoll(pollID uuid.UUID, handler func(event string, payload []byte)) (func(), error) {
	f.handlers[pollID] = handler
	return func() { f.cancelled[pollID] = true }, nil
}

func newTestClient(pollID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New().String(),
		PollID: pollID,
		send:   make(chan WSMessage, 4),
	}
}

func TestHubSubscribesOnFirstClientOnly(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	pollID := uuid.New()

	c1, c2 := newTestClient(pollID), newTestClient(pollID)
	hub.Register(c1)
	hub.Register(c2)

	assert.Len(t, ps.handlers, 1)
	assert.Equal(t, 2, hub.ClientCount(pollID))
}

func TestHubCancelsSubscriptionWhenRoomEmpties(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	pollID := uuid.New()

	c1, c2 := newTestClient(pollID), newTestClient(pollID)
	hub.Register(c1)
	hub.Register(c2)

	hub.Unregister(c1)
	assert.False(t, ps.cancelled[pollID])

	hub.Unregister(c2)
	assert.True(t, ps.cancelled[pollID])
	assert.Equal(t, 0, hub.ClientCount(pollID))
}

func TestHubBroadcastReachesOnlyPollRoom(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	pollA, pollB := uuid.New(), uuid.New()

	inA, inB := newTestClient(pollA), newTestClient(pollB)
	hub.Register(inA)
	hub.Register(inB)

	hub.BroadcastToPoll(pollA, "vote_cast", map[string]string{"nomination_id": "x"})

	require.Len(t, inA.send, 1)
	msg := <-inA.send
	assert.Equal(t, "vote_cast", msg.Event)
	assert.Empty(t, inB.send)
}

func TestHubBroadcastAndPublish(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	pollID := uuid.New()

	c := newTestClient(pollID)
	hub.Register(c)

	hub.BroadcastToPollAndPublish(pollID, "vote_cast", map[string]string{"vote_id": "v"})

	assert.Len(t, c.send, 1)
	assert.Equal(t, []string{"vote_cast"}, ps.published)
}

func TestHubRedisMessageFansOutToLocalClients(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	pollID := uuid.New()

	c := newTestClient(pollID)
	hub.Register(c)

	// Simulate a vote event arriving from another instance.
	require.Contains(t, ps.handlers, pollID)
	ps.handlers[pollID]("vote_cast", []byte(`{"vote_id":"v"}`))

	require.Len(t, c.send, 1)
	msg := <-c.send
	assert.Equal(t, "vote_cast", msg.Event)
	assert.JSONEq(t, `{"vote_id":"v"}`, string(msg.Data))
}

func TestHubBroadcastSkipsFullBuffers(t *testing.T) {
	ps := newFakePubSub()
	hub := NewHub(zap.NewNop(), ps, ps)
	pollID := uuid.New()

	c := &Client{ID: uuid.New().String(), PollID: pollID, send: make(chan WSMessage)}
	hub.Register(c)

	// Unbuffered channel with no reader; broadcast must not block.
	hub.BroadcastToPoll(pollID, "vote_cast", nil)
}
