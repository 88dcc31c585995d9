package broker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPublisher(t *testing.T) (*RedisPublisher, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisPublisher(client), mr
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestPublishSubscribe_RoundTrip(t *testing.T) {
	pub, _ := setupTestPublisher(t)
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := pub.Subscribe(ctx)
	require.NoError(t, err)

	err = pub.Publish(ctx, Event{
		Resource: "blog",
		Action:   ActionCreated,
		ID:       "blog-1",
		Slug:     "hello-world",
	})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, "blog", event.Resource)
		assert.Equal(t, ActionCreated, event.Action)
		assert.Equal(t, "hello-world", event.Slug)
		assert.False(t, event.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestPublish_RedisDown(t *testing.T) {
	pub, mr := setupTestPublisher(t)
	mr.Close()

	err := pub.Publish(context.Background(), Event{Resource: "project", Action: ActionDeleted, ID: "p1"})
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
