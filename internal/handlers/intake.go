package handlers

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/commands"
	"uid-intake-bot/internal/config"
	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/helpers"
	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/permissions"
	"uid-intake-bot/internal/validation"
)

// IntakeHandler walks a user from /start to a stored submission
type IntakeHandler struct {
	BaseHandler
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(
	stateService StateStore,
	submissions SubmissionWriter,
	screenshots ScreenshotStore,
	outbox Outbox,
	catalog *messages.Catalog,
	config *config.Config,
	logger *logrus.Logger,
) *IntakeHandler {
	return &IntakeHandler{
		BaseHandler: NewBaseHandler(stateService, submissions, screenshots, outbox, catalog, config, logger),
	}
}

// CanHandle checks if the handler can handle the given access type
func (h *IntakeHandler) CanHandle(accessType permissions.AccessType) bool {
	return accessType == permissions.None
}

// Handle handles a message from Telegram
func (h *IntakeHandler) Handle(ctx context.Context, in *models.Incoming) error {
	if in.User.ID == 0 {
		return h.sendTextMessage(ctx, in, h.catalog.NoUserInfo())
	}

	if in.Kind == models.KindCommand && in.Command == commands.Start {
		return h.handleStart(ctx, in)
	}

	if !h.config.Flow.RequireScreenshot && isMedia(in.Kind) {
		return h.sendTextMessage(ctx, in, h.catalog.ScreenshotNotRequired())
	}

	state, _ := h.stateService.GetState(in.User.ID)

	switch state.State {
	case models.AwaitingUID:
		return h.processUID(ctx, in)
	case models.AwaitingScreenshot:
		return h.processScreenshot(ctx, in, state)
	default:
		return h.sendTextMessage(ctx, in, h.catalog.StartHint())
	}
}

func isMedia(kind models.UpdateKind) bool {
	return kind == models.KindPhoto || kind == models.KindDocument || kind == models.KindVideo
}

// handleStart resets the flow and greets the user
func (h *IntakeHandler) handleStart(ctx context.Context, in *models.Incoming) error {
	h.stateService.ClearState(in.User.ID)

	welcome := h.catalog.Welcome(h.config.Flow.RequireScreenshot)
	if !h.sendWelcomeVideo(ctx, in, welcome) {
		if err := h.sendTextMessage(ctx, in, welcome); err != nil {
			return err
		}
	}

	h.stateService.SetState(in.User.ID, models.UserState{State: models.AwaitingUID})
	return nil
}

func (h *IntakeHandler) sendWelcomeVideo(ctx context.Context, in *models.Incoming, caption string) bool {
	path := h.config.Flow.WelcomeVideoPath
	if path == "" {
		return false
	}

	if _, err := os.Stat(path); err != nil {
		h.logger.Warnf("Welcome video %s is unavailable: %v", path, err)
		return false
	}

	if _, err := h.outbox.SendVideo(ctx, in.ChatID, in.User, path, caption); err != nil {
		h.logger.Errorf("Error sending welcome video, falling back to text: %v", err)
		return false
	}
	return true
}

// processUID validates the UID and moves the flow forward
func (h *IntakeHandler) processUID(ctx context.Context, in *models.Incoming) error {
	if in.Kind != models.KindText && in.Kind != models.KindCommand {
		return h.sendTextMessage(ctx, in, h.catalog.UIDFirst())
	}

	uid := strings.TrimSpace(in.Text)
	if err := validation.ValidateUID(uid); err != nil {
		h.logger.Debugf("User %d sent invalid UID %q", in.User.ID, uid)
		return h.sendTextMessage(ctx, in, h.catalog.InvalidUID())
	}

	if !h.config.Flow.RequireScreenshot {
		return h.submitUID(ctx, in, uid)
	}

	h.stateService.SetState(in.User.ID, models.UserState{State: models.AwaitingScreenshot, UID: &uid})
	return h.sendTextMessage(ctx, in, h.catalog.DepositInstructions(uid))
}

// submitUID stores a UID-only submission
func (h *IntakeHandler) submitUID(ctx context.Context, in *models.Incoming, uid string) error {
	processingID := h.sendTransient(ctx, in, h.catalog.ProcessingUID())

	sub, err := h.submissions.Create(ctx, models.NewSubmission{User: in.User, UID: uid})
	h.removeTransient(ctx, in, processingID)
	if err != nil {
		return h.reportSubmissionError(ctx, in, err)
	}

	h.logger.Infof("Stored submission %s for %s (UID %s)", sub.ID, helpers.DisplayName(in.User), uid)
	h.stateService.ClearState(in.User.ID)
	return h.sendTextMessage(ctx, in, h.catalog.Submitted(false))
}

// processScreenshot stores the deposit screenshot and creates the submission
func (h *IntakeHandler) processScreenshot(ctx context.Context, in *models.Incoming, state models.UserState) error {
	if state.UID == nil {
		stateErr := &apperrors.StateError{UserID: in.User.ID, State: state.State.String(), Message: "UID is missing"}
		h.logger.Warn(stateErr.Error())
		h.stateService.SetState(in.User.ID, models.UserState{State: models.AwaitingUID})
		return h.sendTextMessage(ctx, in, h.catalog.UIDFirst())
	}

	switch in.Kind {
	case models.KindPhoto:
	case models.KindDocument:
		if in.File == nil || !helpers.IsImageMIME(in.File.MIMEType) {
			return h.sendTextMessage(ctx, in, h.catalog.ImageRequired())
		}
	case models.KindVideo:
		return h.sendTextMessage(ctx, in, h.catalog.ImageRequired())
	default:
		return h.sendTextMessage(ctx, in, h.catalog.ScreenshotReminder())
	}

	if in.File == nil {
		return h.sendTextMessage(ctx, in, h.catalog.ImageRequired())
	}

	processingID := h.sendTransient(ctx, in, h.catalog.ProcessingScreenshot())

	imageURL, err := h.screenshots.StoreScreenshot(ctx, *in.File)
	if err != nil {
		h.removeTransient(ctx, in, processingID)
		h.logger.Errorf("Failed to store screenshot for user %d: %v", in.User.ID, err)
		return h.sendTextMessage(ctx, in, h.catalog.SubmissionFailed())
	}

	sub, err := h.submissions.Create(ctx, models.NewSubmission{
		User:     in.User,
		UID:      *state.UID,
		ImageURL: imageURL,
	})
	h.removeTransient(ctx, in, processingID)
	if err != nil {
		return h.reportSubmissionError(ctx, in, err)
	}

	h.logger.Infof("Stored submission %s for %s (UID %s)", sub.ID, helpers.DisplayName(in.User), *state.UID)
	h.stateService.ClearState(in.User.ID)
	return h.sendTextMessage(ctx, in, h.catalog.Submitted(true))
}

// reportSubmissionError tells the user the submission was not stored; state is kept for a retry
func (h *IntakeHandler) reportSubmissionError(ctx context.Context, in *models.Incoming, err error) error {
	h.logger.Errorf("Error saving submission for user %d: %v", in.User.ID, err)

	var schemaErr *apperrors.SchemaError
	if errors.As(err, &schemaErr) {
		return h.sendTextMessage(ctx, in, h.catalog.SchemaProblem(schemaErr.Column))
	}
	return h.sendTextMessage(ctx, in, h.catalog.SubmissionFailed())
}
