package libraries

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatMessageEnvelope(t *testing.T) {
	raw := []byte(`{"type":"chat_message","data":{"chat_id":"abc","message":"hello"}}`)

	msg, err := parseWebSocketMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, WebSocketMessageTypeMessage, msg.Type)

	payload, ok := msg.Data.(*ChatMessagePayload)
	require.True(t, ok)
	assert.Equal(t, "abc", payload.ChatId)
	assert.Equal(t, "hello", payload.Message)
}

func TestParseChatMessageWithoutChatId(t *testing.T) {
	raw := []byte(`{"type":"chat_message","data":{"message":"new conversation"}}`)

	msg, err := parseWebSocketMessage(raw)
	require.NoError(t, err)

	payload, ok := msg.Data.(*ChatMessagePayload)
	require.True(t, ok)
	assert.Empty(t, payload.ChatId)
	assert.Equal(t, "new conversation", payload.Message)
}

func TestParsePingEnvelope(t *testing.T) {
	msg, err := parseWebSocketMessage([]byte(`{"type":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, WebSocketMessageTypePing, msg.Type)
	assert.Nil(t, msg.Data)
}

func TestParseRejectsMalformedFrames(t *testing.T) {
	_, err := parseWebSocketMessage([]byte(`{not json`))
	assert.Error(t, err)

	// chat_message data must decode into the payload struct
	_, err = parseWebSocketMessage([]byte(`{"type":"chat_message","data":42}`))
	assert.Error(t, err)
}

func TestSendErrorMessageEnvelope(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: uuid.NewString(), Send: make(chan []byte, 1)}

	SendErrorMessage(hub, client, "Invalid chat ID")

	var frame struct {
		Type string `json:"type"`
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-client.Send, &frame))
	assert.Equal(t, "error", frame.Type)
	assert.Equal(t, "Invalid chat ID", frame.Data.Message)
}

func TestHubRoutesFramesToOneUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	target := &Client{ID: uuid.NewString(), UserID: uuid.New(), Send: make(chan []byte, 4)}
	other := &Client{ID: uuid.NewString(), UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.Register <- target
	hub.Register <- other

	hub.NotifyUser(target.UserID, WebSocketMessageTypeDocumentReady, map[string]string{"chat_id": "abc"})

	var frame struct {
		Type string `json:"type"`
		Data struct {
			ChatId string `json:"chat_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-target.Send, &frame))
	assert.Equal(t, "document_ready", frame.Type)
	assert.Equal(t, "abc", frame.Data.ChatId)

	select {
	case msg := <-other.Send:
		t.Fatalf("frame leaked to another user: %s", msg)
	default:
	}

	// unregister closes the send channel exactly once
	hub.Unregister <- other
	_, open := <-other.Send
	assert.False(t, open)
	hub.Unregister <- other

	hub.Unregister <- target
}
