package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/commands"
	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/permissions"
)

// AdminHandler handles bot admins: the intake flow plus admin commands
type AdminHandler struct {
	*IntakeHandler
	stats           StatisticsSource
	commandHandlers map[string]func(context.Context, *models.Incoming) error
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	stateService StateStore,
	submissions SubmissionWriter,
	screenshots ScreenshotStore,
	outbox Outbox,
	stats StatisticsSource,
	catalog *messages.Catalog,
	config *config.Config,
	logger *logrus.Logger,
) *AdminHandler {
	handler := &AdminHandler{
		IntakeHandler: NewIntakeHandler(stateService, submissions, screenshots, outbox, catalog, config, logger),
		stats:         stats,
	}

	handler.initializeCommands()
	return handler
}

// CanHandle checks if the handler can handle the given access type
func (h *AdminHandler) CanHandle(accessType permissions.AccessType) bool {
	return accessType == permissions.Admin
}

// Handle handles a message from Telegram
func (h *AdminHandler) Handle(ctx context.Context, in *models.Incoming) error {
	if in.Kind == models.KindCommand {
		if handler, ok := h.commandHandlers[in.Command]; ok {
			return handler(ctx, in)
		}
	}

	return h.IntakeHandler.Handle(ctx, in)
}

// initializeCommands initializes the command handlers
func (h *AdminHandler) initializeCommands() {
	h.commandHandlers = map[string]func(context.Context, *models.Incoming) error{
		commands.Stats: h.handleStats,
	}
}

// handleStats replies with message log statistics
func (h *AdminHandler) handleStats(ctx context.Context, in *models.Incoming) error {
	stats := h.stats.Statistics(ctx)
	return h.sendTextMessage(ctx, in, h.catalog.Statistics(stats, h.stateService.ActiveCount()))
}
