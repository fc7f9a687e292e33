package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"uid-intake-bot/internal/models"
)

// BotAPI is the part of *telebot.Bot used for outbound traffic
type BotAPI interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Delete(msg telebot.Editable) error
	FileByID(fileID string) (telebot.File, error)
}

// MessageLogger records bot traffic
type MessageLogger interface {
	Log(ctx context.Context, entry models.MessageLog) bool
}

// Messenger sends Telegram messages and records them in the message log
type Messenger struct {
	api        BotAPI
	messages   MessageLogger
	dispatcher *Dispatcher
	logger     *logrus.Logger
}

// NewMessenger creates a new messenger
func NewMessenger(api BotAPI, messages MessageLogger, dispatcher *Dispatcher, logger *logrus.Logger) *Messenger {
	return &Messenger{
		api:        api,
		messages:   messages,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SendText sends text to a chat on behalf of the flow with user and returns the message id
func (m *Messenger) SendText(ctx context.Context, chatID int64, user models.TelegramUser, text string) (int, error) {
	msg, err := m.api.Send(&telebot.Chat{ID: chatID}, text)
	if err != nil {
		return 0, fmt.Errorf("send message to chat %d: %w", chatID, err)
	}

	m.record(user, text, models.MessageTypeText)
	return msg.ID, nil
}

// SendVideo sends a video from disk with a caption
func (m *Messenger) SendVideo(ctx context.Context, chatID int64, user models.TelegramUser, path, caption string) (int, error) {
	video := &telebot.Video{
		File:    telebot.FromDisk(path),
		Caption: caption,
	}

	msg, err := m.api.Send(&telebot.Chat{ID: chatID}, video)
	if err != nil {
		return 0, fmt.Errorf("send video to chat %d: %w", chatID, err)
	}

	m.record(user, caption, models.MessageTypeVideo)
	return msg.ID, nil
}

// Delete removes a message the bot sent earlier
func (m *Messenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	err := m.api.Delete(telebot.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
	if err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (m *Messenger) record(user models.TelegramUser, text string, msgType models.MessageType) {
	if m.messages == nil {
		return
	}

	entry := models.MessageLog{
		User:      user,
		Text:      text,
		Direction: models.DirectionOutgoing,
		Type:      msgType,
	}

	m.dispatcher.Go("log outgoing message", func(ctx context.Context) {
		m.messages.Log(ctx, entry)
	})
}
