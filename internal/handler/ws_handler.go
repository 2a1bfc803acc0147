package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/ws"
	"github.com/laporinapp/laporin/pkg/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate origin
	},
}

// ChatProvider is what the gateway needs from the chat session manager
type ChatProvider interface {
	SaveMessage(chatID, userID uuid.UUID, text string) (*model.MessageResponse, error)
	MarkMessageRead(messageID uuid.UUID) error
	CanAccessChat(chatID, userID uuid.UUID, role model.Role) (bool, error)
}

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub      *ws.Hub
	rooms    ws.Broadcaster
	chat     ChatProvider
	verifier auth.CredentialVerifier
}

func NewWSHandler(hub *ws.Hub, rooms ws.Broadcaster, chat ChatProvider, verifier auth.CredentialVerifier) *WSHandler {
	return &WSHandler{
		hub:      hub,
		rooms:    rooms,
		chat:     chat,
		verifier: verifier,
	}
}

// HandleWebSocket authenticates the handshake and upgrades the connection.
// The credential rides in the Cookie header; a connection that fails
// verification is rejected before it can join any room.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	claims, err := h.verifier.Verify(c.GetHeader("Cookie"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Name, claims.Role)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleEvent)
}

// handleEvent dispatches incoming socket events. Each event is independent;
// no lock is held across the persistence calls made here.
func (h *WSHandler) handleEvent(client *ws.Client, event model.WSEvent) {
	switch event.Type {
	case model.WSEventJoinRoom:
		h.handleJoinRoom(client, event)

	case model.WSEventLeaveRoom:
		h.handleLeaveRoom(client, event)

	case model.WSEventTyping:
		h.handleTyping(client, event, model.WSEventUserTyping)

	case model.WSEventStopTyping:
		h.handleTyping(client, event, model.WSEventUserStoppedTyping)

	case model.WSEventSendMessage:
		h.handleSendMessage(client, event)

	case model.WSEventMessageRead:
		h.handleMessageRead(client, event)

	default:
		log.Printf("Unknown WebSocket event type: %s", event.Type)
	}
}

// handleJoinRoom verifies the user is a legitimate participant (report owner
// or RT admin) before adding the connection to the room.
func (h *WSHandler) handleJoinRoom(client *ws.Client, event model.WSEvent) {
	var payload model.RoomPayload
	if !decodePayload(event, &payload) {
		return
	}

	allowed, err := h.chat.CanAccessChat(payload.ChatID, client.UserID, client.Role)
	if err != nil || !allowed {
		client.Send(&model.WSEvent{
			Type:    model.WSEventError,
			Payload: gin.H{"message": "not allowed to join this chat"},
		})
		return
	}

	h.hub.JoinRoom(client, payload.ChatID.String())
}

func (h *WSHandler) handleLeaveRoom(client *ws.Client, event model.WSEvent) {
	var payload model.RoomPayload
	if !decodePayload(event, &payload) {
		return
	}
	h.hub.LeaveRoom(client, payload.ChatID.String())
}

// handleTyping relays the ephemeral typing indicator to the rest of the room.
// Never persisted; the sender is excluded.
func (h *WSHandler) handleTyping(client *ws.Client, event model.WSEvent, outType string) {
	var payload model.TypingPayload
	if !decodePayload(event, &payload) {
		return
	}

	h.rooms.PublishExcept(payload.ChatID.String(), client.SocketID, &model.WSEvent{
		Type:    outType,
		Payload: model.UserTypingPayload{UserID: client.UserID},
	})
}

// handleSendMessage persists first, then broadcasts to the whole room
// including the sender, echoing the client temp id for optimistic-UI
// reconciliation. If persistence fails nothing is broadcast; the client
// times out its tentative entry.
func (h *WSHandler) handleSendMessage(client *ws.Client, event model.WSEvent) {
	var payload model.SendMessagePayload
	if !decodePayload(event, &payload) {
		return
	}
	opt := payload.OptimisticMessage

	msg, err := h.chat.SaveMessage(opt.ChatID, client.UserID, opt.Message)
	if err != nil {
		log.Printf("Error saving message for chat %s: %v", opt.ChatID, err)
		return
	}

	h.rooms.Publish(opt.ChatID.String(), &model.WSEvent{
		Type: model.WSEventReceiveMessage,
		Payload: model.ReceiveMessagePayload{
			ClientTempID: opt.ID,
			Message:      *msg,
		},
	})
}

// handleMessageRead records the read receipt, then tells the rest of the room
func (h *WSHandler) handleMessageRead(client *ws.Client, event model.WSEvent) {
	var payload model.MessageReadPayload
	if !decodePayload(event, &payload) {
		return
	}

	if err := h.chat.MarkMessageRead(payload.MessageID); err != nil {
		log.Printf("Error marking message %s read: %v", payload.MessageID, err)
		return
	}

	h.rooms.PublishExcept(payload.ChatID.String(), client.SocketID, &model.WSEvent{
		Type:    model.WSEventMessageRead,
		Payload: payload,
	})
}

// decodePayload round-trips the loosely-typed event payload into its
// concrete shape.
func decodePayload(event model.WSEvent, out interface{}) bool {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("Error parsing %s payload: %v", event.Type, err)
		return false
	}
	return true
}
