package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/permissions"
)

// MessageHandler defines the interface for handling Telegram messages
type MessageHandler interface {
	Handle(ctx context.Context, in *models.Incoming) error
	CanHandle(accessType permissions.AccessType) bool
}

// HandlerFactory creates message handlers
type HandlerFactory struct {
	stateService StateStore
	submissions  SubmissionWriter
	screenshots  ScreenshotStore
	outbox       Outbox
	stats        StatisticsSource
	catalog      *messages.Catalog
	config       *config.Config
	logger       *logrus.Logger
}

// NewHandlerFactory creates a new handler factory
func NewHandlerFactory(
	stateService StateStore,
	submissions SubmissionWriter,
	screenshots ScreenshotStore,
	outbox Outbox,
	stats StatisticsSource,
	catalog *messages.Catalog,
	config *config.Config,
	logger *logrus.Logger,
) *HandlerFactory {
	return &HandlerFactory{
		stateService: stateService,
		submissions:  submissions,
		screenshots:  screenshots,
		outbox:       outbox,
		stats:        stats,
		catalog:      catalog,
		config:       config,
		logger:       logger,
	}
}

// CreateHandler creates a message handler for the given access type
func (f *HandlerFactory) CreateHandler(accessType permissions.AccessType) MessageHandler {
	switch accessType {
	case permissions.Admin:
		return NewAdminHandler(f.stateService, f.submissions, f.screenshots, f.outbox, f.stats, f.catalog, f.config, f.logger)
	case permissions.None:
		return NewIntakeHandler(f.stateService, f.submissions, f.screenshots, f.outbox, f.catalog, f.config, f.logger)
	default:
		f.logger.Warnf("Unknown access type: %d", accessType)
		return NewIntakeHandler(f.stateService, f.submissions, f.screenshots, f.outbox, f.catalog, f.config, f.logger)
	}
}
