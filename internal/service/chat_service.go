package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
)

var (
	// ErrEmptyMessage rejects blank chat messages before they hit the store
	ErrEmptyMessage = errors.New("message body must not be empty")
	// ErrChatForbidden means the user is neither the report owner nor an admin
	ErrChatForbidden = errors.New("not a participant of this chat")
)

// ChatStore is the persistence surface of the chat session manager
type ChatStore interface {
	GetOrCreate(reportID uuid.UUID) (*model.Chat, error)
	FindByReportID(reportID uuid.UUID) (*model.Chat, error)
	FindByID(id uuid.UUID) (*model.Chat, error)
	CreateMessage(msg *model.Message) error
	FindMessageByID(id uuid.UUID) (*model.Message, error)
	MessagesByChat(chatID uuid.UUID) ([]model.Message, error)
	MarkMessageRead(messageID uuid.UUID) error
}

// ChatService maps reports to their single chat thread and owns message
// persistence. The gateway persists through here before it broadcasts.
type ChatService struct {
	chats ChatStore
}

func NewChatService(chats ChatStore) *ChatService {
	return &ChatService{chats: chats}
}

// GetOrCreateChat returns the thread for a report, creating it on first use.
// Concurrent calls converge on one thread.
func (s *ChatService) GetOrCreateChat(reportID uuid.UUID) (*model.Chat, error) {
	return s.chats.GetOrCreate(reportID)
}

// ChatForReport is the lookup-only variant
func (s *ChatService) ChatForReport(reportID uuid.UUID) (*model.Chat, error) {
	return s.chats.FindByReportID(reportID)
}

// Messages returns a chat's history ascending by creation time, each message
// enriched with the sender's display fields.
func (s *ChatService) Messages(chatID uuid.UUID) ([]model.MessageResponse, error) {
	messages, err := s.chats.MessagesByChat(chatID)
	if err != nil {
		return nil, err
	}
	result := make([]model.MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, messages[i].ToResponse())
	}
	return result, nil
}

// SaveMessage appends a message with a server-assigned id and timestamp and
// returns it with the sender projected for broadcast.
func (s *ChatService) SaveMessage(chatID, userID uuid.UUID, text string) (*model.MessageResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	msg := &model.Message{
		ChatID: chatID,
		UserID: userID,
		Body:   text,
	}
	if err := s.chats.CreateMessage(msg); err != nil {
		return nil, err
	}

	// Reload with the sender so the broadcast carries display fields
	saved, err := s.chats.FindMessageByID(msg.ID)
	if err != nil {
		return nil, err
	}
	resp := saved.ToResponse()
	return &resp, nil
}

// MarkMessageRead moves a message unread -> read (monotonic)
func (s *ChatService) MarkMessageRead(messageID uuid.UUID) error {
	return s.chats.MarkMessageRead(messageID)
}

// CanAccessChat checks room-join authorization: the report owner and RT
// admins are the only legitimate participants.
func (s *ChatService) CanAccessChat(chatID, userID uuid.UUID, role model.Role) (bool, error) {
	if role == model.RoleRTAdmin {
		return true, nil
	}
	chat, err := s.chats.FindByID(chatID)
	if err != nil {
		return false, err
	}
	return chat.Report.UserID == userID, nil
}
