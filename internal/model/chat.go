package model

import (
	"time"

	"github.com/google/uuid"
)

// Chat is the single conversation thread attached to a report. The unique
// index on report_id is what guarantees "at most one thread per report" even
// under concurrent start-chat calls.
type Chat struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportID  uuid.UUID `json:"report_id" gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`

	Report Report `json:"-" gorm:"foreignKey:ReportID"`
}

// Message is one chat message. Append-only; read_at moves unread -> read once
// and never back.
type Message struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatID    uuid.UUID  `json:"chat_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Body      string     `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// MessageResponse enriches a message with the sender's display projection
type MessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	ChatID    uuid.UUID  `json:"chat_id"`
	Body      string     `json:"message"`
	Sender    Sender     `json:"sender"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// ToResponse projects the message with its preloaded sender
func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Body:      m.Body,
		Sender:    m.User.ToSender(),
		CreatedAt: m.CreatedAt,
		ReadAt:    m.ReadAt,
	}
}
