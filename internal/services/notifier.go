package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/models"
)

// TextSender delivers a text message to a chat
type TextSender interface {
	SendText(ctx context.Context, chatID int64, user models.TelegramUser, text string) (int, error)
}

// Notifier sends best-effort messages to submitters
type Notifier struct {
	sender     TextSender
	catalog    *messages.Catalog
	dispatcher *Dispatcher
	logger     *logrus.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(sender TextSender, catalog *messages.Catalog, dispatcher *Dispatcher, logger *logrus.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SendText sends text to the user's private chat and reports whether it was delivered.
// Failures are logged and never returned.
func (n *Notifier) SendText(ctx context.Context, user models.TelegramUser, text string) bool {
	if _, err := n.sender.SendText(ctx, user.ID, user, text); err != nil {
		n.logger.Errorf("Failed to send message to user %d: %v", user.ID, err)
		return false
	}
	return true
}

// NotifyStatusChange queues the template for the new status when the update
// actually moved the submission into Approved or Rejected. It reports whether
// a notification was queued.
func (n *Notifier) NotifyStatusChange(res *models.UpdatedSubmission) bool {
	if res == nil || res.Submission == nil || !res.StatusChanged() {
		return false
	}

	text, ok := n.catalog.StatusMessage(res.Submission.Status)
	if !ok {
		return false
	}

	user := res.Submission.Recipient()
	if user.ID == 0 {
		n.logger.Warnf("Submission %s has no Telegram user, skipping %s notification", res.Submission.ID, res.Submission.Status)
		return false
	}

	status := res.Submission.Status
	n.dispatcher.Go("status notification", func(ctx context.Context) {
		if n.SendText(ctx, user, text) {
			n.logger.Infof("Sent %s notification to user %d", status, user.ID)
		}
	})

	return true
}

// SendCustom delivers an operator-composed message to the submission's user
func (n *Notifier) SendCustom(ctx context.Context, sub *models.Submission, text string) bool {
	return n.SendText(ctx, sub.Recipient(), text)
}
