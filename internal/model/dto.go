package model

import "github.com/google/uuid"

// ========== Auth DTOs ==========

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ========== Subscription DTOs ==========

// SubscribeRequest mirrors the browser PushSubscription.toJSON() shape
type SubscribeRequest struct {
	Endpoint string               `json:"endpoint" binding:"required"`
	Keys     SubscribeRequestKeys `json:"keys" binding:"required"`
}

type SubscribeRequestKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

type SetPushEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ========== Report / Announcement DTOs ==========

type CreateReportRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
}

type UpdateReportStatusRequest struct {
	Status ReportStatus `json:"status" binding:"required,oneof=RECEIVED IN_PROGRESS RESOLVED REJECTED"`
}

type CreateAnnouncementRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body" binding:"required"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types
const (
	WSEventJoinRoom          = "join_room"
	WSEventLeaveRoom         = "leave_room"
	WSEventTyping            = "typing"
	WSEventStopTyping        = "stop_typing"
	WSEventUserTyping        = "user_typing"
	WSEventUserStoppedTyping = "user_stopped_typing"
	WSEventSendMessage       = "send_message"
	WSEventReceiveMessage    = "receive_message"
	WSEventMessageRead       = "message_read"
	WSEventError             = "error"
)

// RoomPayload carries the chat id for join_room / leave_room
type RoomPayload struct {
	ChatID uuid.UUID `json:"chatId"`
}

// TypingPayload is the client-side typing / stop_typing body
type TypingPayload struct {
	ChatID uuid.UUID `json:"chatId"`
	UserID uuid.UUID `json:"userId"`
}

// UserTypingPayload is broadcast to the rest of the room
type UserTypingPayload struct {
	UserID uuid.UUID `json:"userId"`
}

// OptimisticMessage is the sender's tentative UI entry: the id here is the
// client-side temporary one, echoed back so the client can reconcile.
type OptimisticMessage struct {
	ID      string    `json:"id"`
	ChatID  uuid.UUID `json:"chatId"`
	Message string    `json:"message"`
}

type SendMessagePayload struct {
	OptimisticMessage OptimisticMessage `json:"optimisticMessage"`
}

// ReceiveMessagePayload carries the persisted message plus the client temp id
type ReceiveMessagePayload struct {
	ClientTempID string          `json:"clientTempId"`
	Message      MessageResponse `json:"message"`
}

// MessageReadPayload flows both directions for read receipts
type MessageReadPayload struct {
	MessageID uuid.UUID `json:"messageId"`
	ChatID    uuid.UUID `json:"chatId"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
