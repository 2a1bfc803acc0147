package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laporinapp/laporin/internal/model"
)

// ChatRepository handles database operations for Chat and Message
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetOrCreate returns the chat thread for a report, creating it if missing.
// The unique index on report_id makes concurrent calls safe: the loser of the
// insert race re-reads the winner's row.
func (r *ChatRepository) GetOrCreate(reportID uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.Where("report_id = ?", reportID).First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chat = model.Chat{ReportID: reportID}
	if createErr := r.db.Create(&chat).Error; createErr != nil {
		// Lost the race: another caller inserted first
		var existing model.Chat
		if findErr := r.db.Where("report_id = ?", reportID).First(&existing).Error; findErr == nil {
			return &existing, nil
		}
		return nil, createErr
	}
	return &chat, nil
}

// FindByReportID is the lookup-only variant, no side effects
func (r *ChatRepository) FindByReportID(reportID uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.Where("report_id = ?", reportID).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindByID finds a chat with its report (used for membership checks)
func (r *ChatRepository) FindByID(id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.Preload("Report").Where("id = ?", id).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// CreateMessage appends a message; id and created_at are server-assigned
func (r *ChatRepository) CreateMessage(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// FindMessageByID loads a message with its sender preloaded
func (r *ChatRepository) FindMessageByID(id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	err := r.db.
		Preload("User").
		Where("id = ?", id).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessagesByChat returns a chat's messages ascending by creation time, each
// with the sender preloaded for display projection.
func (r *ChatRepository) MessagesByChat(chatID uuid.UUID) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.
		Preload("User").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkMessageRead sets read_at once; the unread -> read transition is
// monotonic, so already-read messages are left untouched.
func (r *ChatRepository) MarkMessageRead(messageID uuid.UUID) error {
	return r.db.Model(&model.Message{}).
		Where("id = ? AND read_at IS NULL", messageID).
		Update("read_at", time.Now()).Error
}
