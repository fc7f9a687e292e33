package telegrambot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/constants"
	"uid-intake-bot/internal/handlers"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/permissions"
	"uid-intake-bot/internal/services"
)

// UserLocker serializes work for a single user
type UserLocker interface {
	Lock(userID int64) func()
}

// Bot represents a Telegram bot
type Bot struct {
	bot        *telebot.Bot
	webhook    *telebot.Webhook
	intake     *webhookHandler
	config     *config.Config
	handlers   map[permissions.AccessType]handlers.MessageHandler
	locker     UserLocker
	permCtrl   *permissions.PermissionController
	messages   services.MessageLogger
	dispatcher *services.Dispatcher
	logger     *logrus.Logger
}

// NewBot creates a new Telegram bot
func NewBot(cfg *config.Config, logger *logrus.Logger) (*Bot, error) {
	bot := &Bot{
		config:   cfg,
		handlers: make(map[permissions.AccessType]handlers.MessageHandler),
		logger:   logger,
	}

	var poller telebot.Poller = &telebot.LongPoller{Timeout: constants.DefaultLongPollTimeout * time.Second}
	if cfg.Telegram.RunMode == config.RunModeWebhook {
		// Only registers the webhook; updates arrive through WebhookHandler
		bot.webhook = &telebot.Webhook{
			SecretToken: cfg.Telegram.WebhookSecret,
			Endpoint:    &telebot.WebhookEndpoint{PublicURL: cfg.Telegram.WebhookURL},
		}
		poller = bot.webhook
	}

	// Create bot settings
	settings := telebot.Settings{
		Token:  cfg.Telegram.Token,
		URL:    cfg.Telegram.APIURL,
		Poller: poller,
		OnError: func(err error, c telebot.Context) {
			logger.Errorf("Telegram bot error: %v", err)
		},
	}

	// Create bot instance
	b, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	bot.bot = b
	if bot.webhook != nil {
		bot.intake = newWebhookHandler(b, cfg.Telegram.WebhookSecret, logger)
	}

	logger.Infof("Authorized as @%s", b.Me.Username)
	return bot, nil
}

// API returns the client used for outbound calls
func (b *Bot) API() *telebot.Bot {
	return b.bot
}

// Username returns the bot's Telegram username
func (b *Bot) Username() string {
	if b.bot.Me == nil {
		return ""
	}
	return b.bot.Me.Username
}

// WebhookHandler returns the HTTP handler for webhook updates, or nil in long-poll mode
func (b *Bot) WebhookHandler() http.Handler {
	if b.intake == nil {
		return nil
	}
	return b.intake
}

// Setup registers handlers and middleware
func (b *Bot) Setup(
	factory *handlers.HandlerFactory,
	permCtrl *permissions.PermissionController,
	locker UserLocker,
	messages services.MessageLogger,
	dispatcher *services.Dispatcher,
) {
	b.permCtrl = permCtrl
	b.locker = locker
	b.messages = messages
	b.dispatcher = dispatcher

	// Initialize handlers for different access types
	b.handlers[permissions.Admin] = factory.CreateHandler(permissions.Admin)
	b.handlers[permissions.None] = factory.CreateHandler(permissions.None)

	b.setupMiddleware()
}

// Start starts the bot and blocks until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Infof("Starting Telegram bot in %s mode", b.config.Telegram.RunMode)

	// Setup context for graceful shutdown
	go func() {
		<-ctx.Done()
		b.logger.Info("Stopping Telegram bot")
		b.bot.Stop()
	}()

	// Start the bot
	b.bot.Start()
	return nil
}

// setupMiddleware sets up the bot middleware
func (b *Bot) setupMiddleware() {
	b.bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			// One user's updates never interleave
			unlock := b.locker.Lock(sender.ID)
			defer unlock()

			return next(c)
		}
	})

	b.bot.Handle("/start", b.handleUpdate)
	b.bot.Handle("/stats", b.handleUpdate)
	b.bot.Handle(telebot.OnText, b.handleUpdate)
	b.bot.Handle(telebot.OnPhoto, b.handleUpdate)
	b.bot.Handle(telebot.OnDocument, b.handleUpdate)
	b.bot.Handle(telebot.OnVideo, b.handleUpdate)
}

// handleUpdate handles an update from Telegram
func (b *Bot) handleUpdate(c telebot.Context) error {
	in := handlers.NewIncoming(c)
	b.logIncoming(in)

	// Get access type
	accessType := b.permCtrl.GetAccessType(in.User.ID)

	// Get handler for access type
	handler, ok := b.handlers[accessType]
	if !ok {
		b.logger.Warnf("No handler for access type %d", accessType)
		handler = b.handlers[permissions.None]
	}

	// Handle the update
	ctx := context.Background()
	return handler.Handle(ctx, in)
}

// logIncoming writes the update to the log and the message audit trail
func (b *Bot) logIncoming(in *models.Incoming) {
	b.logger.Infof("Received %s from %d: %s", in.Kind.MessageType(), in.User.ID, in.Text)

	if b.messages == nil || in.User.ID == 0 {
		return
	}

	entry := models.MessageLog{
		User:      in.User,
		Text:      in.Text,
		Direction: models.DirectionIncoming,
		Type:      in.Kind.MessageType(),
	}
	if entry.Text == "" {
		entry.Text = fmt.Sprintf("[%s]", entry.Type)
	}

	b.dispatcher.Go("log incoming message", func(ctx context.Context) {
		b.messages.Log(ctx, entry)
	})
}
