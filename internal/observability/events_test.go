package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
)

func TestPublishEventNoPublisherConfigured(t *testing.T) {
	SetPublisher(nil)
	err := PublishEvent(context.Background(), "ws_events.chats", EventEnvelope{}, nil)
	assert.NoError(t, err)
}

func TestPublishEventForwardsToPublisher(t *testing.T) {
	pub := new(mocks.PublisherMock)
	SetPublisher(pub)
	defer SetPublisher(nil)

	envelope := EventEnvelope{EventType: "ws_events", EventName: "ws_connect"}
	headers := map[string]string{"x-request-id": "r1"}
	pub.On("PublishJSON", mock.Anything, "ws_events.chats", envelope, headers).Return(nil).Once()

	err := PublishEvent(context.Background(), "ws_events.chats", envelope, headers)
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestPublishEventPropagatesError(t *testing.T) {
	pub := new(mocks.PublisherMock)
	SetPublisher(pub)
	defer SetPublisher(nil)

	pub.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := PublishEvent(context.Background(), "ws_events.calls", EventEnvelope{}, nil)
	assert.Error(t, err)
	pub.AssertExpectations(t)
}

func TestBuildHeaders(t *testing.T) {
	assert.Empty(t, BuildHeaders("", ""))
	assert.Equal(t, map[string]string{"x-request-id": "r1"}, BuildHeaders("r1", ""))
	assert.Equal(t, map[string]string{"x-request-id": "r1", "trace_id": "t1"}, BuildHeaders("r1", "t1"))
}

func TestWSEventPayloadShape(t *testing.T) {
	payload := WSEventPayload(WSEventInfo{
		Kind:   "chat",
		Topic:  "chat:abc",
		Event:  "ws_disconnect",
		ConnID: "c1",
		UserID: 7,
	})

	ws, ok := payload["ws"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "chat", ws["kind"])
	assert.Equal(t, "chat:abc", ws["topic"])

	identity, ok := payload["identity"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 7, identity["user_id"])
}
