package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/api"
	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/constants"
	"uid-intake-bot/internal/database"
	"uid-intake-bot/internal/handlers"
	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/permissions"
	"uid-intake-bot/internal/services"
	"uid-intake-bot/pkg/storageclient"
	"uid-intake-bot/pkg/telegrambot"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel)

	// Connect to the database
	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	submissionRepo := database.NewSubmissionRepository(db, logger)
	messageRepo := database.NewMessageRepository(db, logger)

	// Initialize services
	dispatcher := services.NewDispatcher(cfg.Telegram.NotifyWorkers, constants.DefaultNotifyQueueSize, logger)
	stateService := services.NewUserStateService(cfg.Flow.StateTTL, logger)
	qrService := services.NewQRService(logger)
	catalog := messages.NewCatalog(cfg.Flow)

	sessionService, err := services.NewSessionService(cfg.Admin, logger)
	if err != nil {
		logger.Fatal("Failed to initialize admin sessions: ", err)
	}

	// Initialize bot
	bot, err := telegrambot.NewBot(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create bot: ", err)
	}

	messenger := services.NewMessenger(bot.API(), messageRepo, dispatcher, logger)
	notifier := services.NewNotifier(messenger, catalog, dispatcher, logger)

	fileService := services.NewFileService(bot.API(), cfg.Telegram.APIURL, cfg.Telegram.Token, logger)
	storageClient := storageclient.NewClient(cfg.Storage, logger)
	screenshotService := services.NewScreenshotService(fileService, storageClient, logger)

	// Setup permission controller
	permController := permissions.NewController(cfg.Telegram.AdminIDs, logger)

	factory := handlers.NewHandlerFactory(stateService, submissionRepo, screenshotService, messenger, messageRepo, catalog, cfg, logger)
	bot.Setup(factory, permController, stateService, messageRepo, dispatcher)

	// Setup admin API
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(submissionRepo, notifier, sessionService, messageRepo, qrService,
		bot.Username, bot.WebhookHandler(), cfg.Admin, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if err := bot.Start(ctx); err != nil {
			logger.Error("Bot failed: ", err)
			cancel()
		}
	}()

	go func() {
		logger.Infof("Admin API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed: ", err)
			cancel()
		}
	}()

	logger.Info("Starting UID intake bot")
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown: %v", err)
	}

	select {
	case <-botDone:
	case <-shutdownCtx.Done():
		logger.Warn("Timed out waiting for the bot to stop")
	}

	// Flush queued notifications and audit writes
	dispatcher.Close()
	logger.Info("Shutdown complete")
}

// setupLogger sets up the logger
func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()

	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Printf("Invalid log level %s, defaulting to info", logLevel)
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	// Set formatter
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: constants.TimestampFormat,
	})

	return logger
}
