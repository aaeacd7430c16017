package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInboundChatMessage(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"chat_message","content":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, InboundChatMessage, in.Kind)
	assert.Equal(t, "hello", in.Content)
	assert.Nil(t, in.ReplyTo)
}

func TestDecodeInboundChatMessageWithReply(t *testing.T) {
	replyTo := uuid.New()
	in, err := DecodeInbound([]byte(`{"type":"chat_message","content":"hi","reply_to":"` + replyTo.String() + `"}`))
	require.NoError(t, err)
	require.NotNil(t, in.ReplyTo)
	assert.Equal(t, replyTo, *in.ReplyTo)
}

func TestDecodeInboundTyping(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"typing","is_typing":true}`))
	require.NoError(t, err)
	assert.Equal(t, InboundTyping, in.Kind)
	assert.True(t, in.IsTyping)
}

func TestDecodeInboundReadReceipt(t *testing.T) {
	messageID := uuid.New()
	in, err := DecodeInbound([]byte(`{"type":"read_receipt","message_id":"` + messageID.String() + `"}`))
	require.NoError(t, err)
	assert.Equal(t, InboundReadReceipt, in.Kind)
	assert.Equal(t, messageID, in.MessageID)
}

func TestDecodeInboundReadReceiptMissingID(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"read_receipt"}`))
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, in.MessageID)
}

func TestDecodeInboundDeleteMessage(t *testing.T) {
	messageID := uuid.New()
	in, err := DecodeInbound([]byte(`{"type":"delete_message","message_id":"` + messageID.String() + `","delete_for_everyone":true}`))
	require.NoError(t, err)
	assert.Equal(t, InboundDeleteMessage, in.Kind)
	assert.Equal(t, messageID, in.MessageID)
	assert.True(t, in.DeleteForEveryone)
}

func TestDecodeInboundCallSignals(t *testing.T) {
	for _, signal := range []string{"offer", "answer", "ice_candidate"} {
		in, err := DecodeInbound([]byte(`{"type":"` + signal + `","data":{"sdp":"x"}}`))
		require.NoError(t, err)
		assert.Equal(t, InboundCallSignal, in.Kind)
		assert.Equal(t, signal, in.SignalType)
		assert.JSONEq(t, `{"sdp":"x"}`, string(in.Data))
	}
}

func TestDecodeInboundUnknownType(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"type":"subscribe"}`))
	assert.ErrorIs(t, err, ErrUnknownInbound)
}

func TestDecodeInboundMalformed(t *testing.T) {
	_, err := DecodeInbound([]byte(`not json`))
	assert.Error(t, err)
}

func TestCallSignalEventMirrorsType(t *testing.T) {
	event := NewCallSignalEvent("offer", 7, []byte(`{"sdp":"y"}`))
	assert.Equal(t, "offer", event.Type)
	assert.Equal(t, 7, event.UserID)
	assert.JSONEq(t, `{"sdp":"y"}`, string(event.Data))
}
