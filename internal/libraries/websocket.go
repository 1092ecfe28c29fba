package libraries

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebSocketMessage represents the standard structure for all websocket messages
type WebSocketMessageType string

const (
	WebSocketMessageTypePing          WebSocketMessageType = "ping"
	WebSocketMessageTypePong          WebSocketMessageType = "pong"
	WebSocketMessageTypeError         WebSocketMessageType = "error"
	WebSocketMessageTypeMessage       WebSocketMessageType = "chat_message"
	WebSocketMessageTypeChatResponse  WebSocketMessageType = "chat_response"
	WebSocketMessageTypeChatStarting  WebSocketMessageType = "chat_starting"
	WebSocketMessageTypeChatCompleted WebSocketMessageType = "chat_completed"
	WebSocketMessageTypeDocumentReady WebSocketMessageType = "document_ready"
)

type Client struct {
	ID        string
	UserID    uuid.UUID
	GeminiKey string
	Conn      *websocket.Conn
	Send      chan []byte
	once      sync.Once
}

type Hub struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan []byte
	SendUser   chan *userMessage
}

// userMessage targets every open connection a single user has
type userMessage struct {
	UserID  uuid.UUID
	Message []byte
}

type WebSocketMessage struct {
	Type WebSocketMessageType `json:"type"`
	Data interface{}          `json:"data,omitempty"`
}

type ChatMessagePayload struct {
	ChatId  string `json:"chat_id,omitempty"`
	Message string `json:"message"`
}

type ChatMessageResponsePayload struct {
	ChatId         string      `json:"chat_id"`
	Message        string      `json:"message"`
	HumanMessageId string      `json:"human_message_id"`
	AiMessageId    string      `json:"ai_message_id"`
	Data           interface{} `json:"data,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan []byte),
		SendUser:   make(chan *userMessage),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client.ID] = client
			metrics.ActiveWSClients.Inc()
		case client := <-h.Unregister:
			if _, exists := h.Clients[client.ID]; exists {
				delete(h.Clients, client.ID)
				metrics.ActiveWSClients.Dec()
				client.once.Do(func() {
					close(client.Send)
				})
			}
		case message := <-h.Broadcast:
			for _, client := range h.Clients {
				client.Send <- message
			}
		case um := <-h.SendUser:
			for _, client := range h.Clients {
				if client.UserID == um.UserID {
					client.Send <- um.Message
				}
			}
		}
	}
}

func (h *Hub) BroadcastMessage(message []byte) {
	h.Broadcast <- message
}

func (h *Hub) SendMessage(client *Client, message []byte) {
	client.Send <- message
}

// NotifyUser pushes a frame to every connection the user has open. Delivery is
// best effort, a user with no open socket simply misses the event.
func (h *Hub) NotifyUser(userID uuid.UUID, eventType WebSocketMessageType, data interface{}) {
	frame := WebSocketMessage{
		Type: eventType,
		Data: data,
	}
	frameBytes, err := json.Marshal(frame)
	if err != nil {
		logger.Error("failed to marshal user notification: " + err.Error())
		return
	}
	h.SendUser <- &userMessage{UserID: userID, Message: frameBytes}
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(hub *Hub, client *Client, errorMsg string) {
	errorResp := WebSocketMessage{
		Type: WebSocketMessageTypeError,
		Data: &ChatMessagePayload{
			Message: errorMsg,
		},
	}
	errorBytes, err := json.Marshal(errorResp)
	if err != nil {
		logger.Error("failed to marshal error response: " + err.Error())
		return
	}
	hub.SendMessage(client, errorBytes)
}

// SendEventType sends a bare event frame with no payload
func SendEventType(hub *Hub, client *Client, eventType WebSocketMessageType) {
	eventTypeResp := WebSocketMessage{
		Type: eventType,
	}
	eventTypeBytes, err := json.Marshal(eventTypeResp)
	if err != nil {
		logger.Error("failed to marshal event type response: " + err.Error())
		return
	}
	hub.SendMessage(client, eventTypeBytes)
}

// sendPongMessage answers a ping with a bare pong frame
func sendPongMessage(hub *Hub, client *Client) {
	SendEventType(hub, client, WebSocketMessageTypePong)
}

// SendChatMessageResponse sends a chat message response to a client.
// Callers streaming a reply word by word call this once per frame, the
// delay below is what paces the typing effect on the client.
func SendChatMessageResponse(hub *Hub, client *Client, Type WebSocketMessageType, message *ChatMessageResponsePayload) {
	chatMessageResponseResp := WebSocketMessage{
		Type: Type,
		Data: message,
	}

	chatMessageResponseBytes, err := json.Marshal(chatMessageResponseResp)
	if err != nil {
		logger.Error("failed to marshal chat message response: " + err.Error())
		return
	}
	hub.SendMessage(client, chatMessageResponseBytes)
	time.Sleep(50 * time.Millisecond)
}

// parseWebSocketMessage parses incoming websocket message and returns the message structure
func parseWebSocketMessage(msg []byte) (*WebSocketMessage, error) {
	var rawMessage struct {
		Type WebSocketMessageType `json:"type"`
		Data json.RawMessage      `json:"data,omitempty"`
	}
	if err := json.Unmarshal(msg, &rawMessage); err != nil {
		return nil, err
	}

	message := &WebSocketMessage{
		Type: rawMessage.Type,
	}

	if len(rawMessage.Data) > 0 {
		switch rawMessage.Type {
		case WebSocketMessageTypeMessage:
			var chatPayload ChatMessagePayload
			if err := json.Unmarshal(rawMessage.Data, &chatPayload); err != nil {
				return nil, err
			}
			message.Data = &chatPayload
		default:
			var data interface{}
			if err := json.Unmarshal(rawMessage.Data, &data); err != nil {
				return nil, err
			}
			message.Data = data
		}
	}

	return message, nil
}

// ChatMessageProcessor defines an interface for processing chat messages
type ChatMessageProcessor interface {
	ProcessChatMessage(hub *Hub, client *Client, message *ChatMessagePayload)
}

func WebSocketHandler(hub *Hub, processor ChatMessageProcessor) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(uuid.UUID)
		geminiKey, _ := conn.Locals("gemini_key").(string)

		client := &Client{
			ID:        uuid.NewString(),
			UserID:    userID,
			GeminiKey: geminiKey,
			Conn:      conn,
			Send:      make(chan []byte, 256),
		}

		hub.Register <- client

		// Write loop
		go func() {
			defer func() {
				hub.Unregister <- client
				conn.Close()
			}()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					logger.Debug("write error: " + err.Error())
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Debug("read error: " + err.Error())
				break
			}

			message, err := parseWebSocketMessage(msg)
			if err != nil {
				logger.Debug("failed to parse JSON: " + err.Error())
				SendErrorMessage(hub, client, "Invalid JSON format")
				continue
			}

			if message.Type == WebSocketMessageTypePing {
				sendPongMessage(hub, client)
			} else if message.Type == WebSocketMessageTypeMessage {
				if message.Data == nil {
					SendErrorMessage(hub, client, "Chat message payload is required")
					continue
				}
				chatPayload, ok := message.Data.(*ChatMessagePayload)
				if !ok {
					SendErrorMessage(hub, client, "Invalid chat message payload type")
					continue
				}
				// chat_id may be empty, that starts a new conversation
				go processor.ProcessChatMessage(hub, client, chatPayload)
			} else {
				SendErrorMessage(hub, client, "Type is invalid or not provided")
				continue
			}
		}

		hub.Unregister <- client
		conn.Close()
	})
}
