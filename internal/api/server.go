package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/models"
)

// SubmissionStore reads and updates submissions
type SubmissionStore interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	Update(ctx context.Context, id string, update models.SubmissionUpdate) (*models.UpdatedSubmission, error)
}

// Notifier messages submitters
type Notifier interface {
	NotifyStatusChange(res *models.UpdatedSubmission) bool
	SendCustom(ctx context.Context, sub *models.Submission, text string) bool
}

// SessionStore authenticates admins and tracks their sessions
type SessionStore interface {
	CheckCredentials(username, password string) bool
	Create(username string) string
	Valid(id string) bool
	Destroy(id string)
}

// StatisticsSource reports message log statistics
type StatisticsSource interface {
	Statistics(ctx context.Context) models.MessageStatistics
}

// QRGenerator renders the bot link as a PNG
type QRGenerator interface {
	BotLinkQR(botUsername string) ([]byte, error)
}

// Server is the admin review HTTP API
type Server struct {
	submissions SubmissionStore
	notifier    Notifier
	sessions    SessionStore
	stats       StatisticsSource
	qr          QRGenerator
	botUsername func() string
	webhook     http.Handler
	config      config.AdminConfig
	logger      *logrus.Logger
}

// NewServer creates a new admin API server. webhook may be nil.
func NewServer(
	submissions SubmissionStore,
	notifier Notifier,
	sessions SessionStore,
	stats StatisticsSource,
	qr QRGenerator,
	botUsername func() string,
	webhook http.Handler,
	config config.AdminConfig,
	logger *logrus.Logger,
) *Server {
	return &Server{
		submissions: submissions,
		notifier:    notifier,
		sessions:    sessions,
		stats:       stats,
		qr:          qr,
		botUsername: botUsername,
		webhook:     webhook,
		config:      config,
		logger:      logger,
	}
}

// Router builds the gin engine with every route
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())

	router.GET("/health", s.handleHealth)

	admin := router.Group("/admin")
	admin.POST("/login", s.handleLogin)
	admin.POST("/logout", s.handleLogout)
	admin.GET("/check", s.handleCheck)

	api := router.Group("/api", s.requireAuth())
	api.GET("/submissions", s.handleListSubmissions)
	api.PATCH("/submissions/:id", s.handleUpdateSubmission)
	api.POST("/submissions/:id/send-message", s.handleSendMessage)
	api.GET("/stats", s.handleStats)
	api.GET("/bot/qr", s.handleBotQR)

	if s.webhook != nil {
		router.POST("/telegram/webhook", gin.WrapH(s.webhook))
	}

	return router
}

// accessLog writes one log line per request
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		})

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("HTTP request failed")
		case c.FullPath() == "/health":
			entry.Debug("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Statistics(c.Request.Context()))
}

func (s *Server) handleBotQR(c *gin.Context) {
	png, err := s.qr.BotLinkQR(s.botUsername())
	if err != nil {
		s.logger.Errorf("Failed to render bot QR code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
