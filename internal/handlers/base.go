package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/permissions"
)

// StateStore holds each user's position in the intake flow
type StateStore interface {
	GetState(userID int64) (models.UserState, bool)
	SetState(userID int64, state models.UserState)
	ClearState(userID int64)
	ActiveCount() int
}

// SubmissionWriter persists completed intakes
type SubmissionWriter interface {
	Create(ctx context.Context, sub models.NewSubmission) (*models.Submission, error)
}

// ScreenshotStore stores a user's screenshot and returns its public URL
type ScreenshotStore interface {
	StoreScreenshot(ctx context.Context, file models.IncomingFile) (string, error)
}

// Outbox sends bot messages
type Outbox interface {
	SendText(ctx context.Context, chatID int64, user models.TelegramUser, text string) (int, error)
	SendVideo(ctx context.Context, chatID int64, user models.TelegramUser, path, caption string) (int, error)
	Delete(ctx context.Context, chatID int64, messageID int) error
}

// StatisticsSource reports message log statistics
type StatisticsSource interface {
	Statistics(ctx context.Context) models.MessageStatistics
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	stateService StateStore
	submissions  SubmissionWriter
	screenshots  ScreenshotStore
	outbox       Outbox
	catalog      *messages.Catalog
	config       *config.Config
	logger       *logrus.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(
	stateService StateStore,
	submissions SubmissionWriter,
	screenshots ScreenshotStore,
	outbox Outbox,
	catalog *messages.Catalog,
	config *config.Config,
	logger *logrus.Logger,
) BaseHandler {
	return BaseHandler{
		stateService: stateService,
		submissions:  submissions,
		screenshots:  screenshots,
		outbox:       outbox,
		catalog:      catalog,
		config:       config,
		logger:       logger,
	}
}

// CanHandle checks if the handler can handle the given access type
func (h *BaseHandler) CanHandle(accessType permissions.AccessType) bool {
	// Base handler can't handle any access type directly
	return false
}

// sendTextMessage replies in the chat the message came from
func (h *BaseHandler) sendTextMessage(ctx context.Context, in *models.Incoming, text string) error {
	_, err := h.outbox.SendText(ctx, in.ChatID, in.User, text)
	if err != nil {
		h.logger.Errorf("Failed to send message: %v", err)
	}
	return err
}

// sendTransient sends a status message that is removed later; zero means nothing was sent
func (h *BaseHandler) sendTransient(ctx context.Context, in *models.Incoming, text string) int {
	id, err := h.outbox.SendText(ctx, in.ChatID, in.User, text)
	if err != nil {
		h.logger.Warnf("Failed to send status message to %d: %v", in.ChatID, err)
		return 0
	}
	return id
}

// removeTransient deletes a message sent by sendTransient
func (h *BaseHandler) removeTransient(ctx context.Context, in *models.Incoming, messageID int) {
	if messageID == 0 {
		return
	}
	if err := h.outbox.Delete(ctx, in.ChatID, messageID); err != nil {
		h.logger.Warnf("Failed to delete status message %d: %v", messageID, err)
	}
}
