package services

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/constants"
)

type adminSession struct {
	Username  string
	CreatedAt time.Time
}

// SessionService authenticates admin panel users and tracks their sessions
type SessionService struct {
	username     string
	passwordHash []byte
	sessions     *cache.Cache
	logger       *logrus.Logger
}

// NewSessionService hashes the configured password. An empty password disables login.
func NewSessionService(cfg config.AdminConfig, logger *logrus.Logger) (*SessionService, error) {
	s := &SessionService{
		username: cfg.Username,
		sessions: cache.New(constants.SessionExpiration*time.Minute, constants.SessionCleanupInterval*time.Minute),
		logger:   logger,
	}

	if cfg.Password == "" {
		logger.Warn("ADMIN_PASSWORD is not set, admin panel login is disabled")
		return s, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s.passwordHash = hash

	return s, nil
}

// CheckCredentials reports whether username and password match the admin account
func (s *SessionService) CheckCredentials(username, password string) bool {
	if s.passwordHash == nil {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// Create starts a session and returns its id
func (s *SessionService) Create(username string) string {
	id := uuid.NewString()
	s.sessions.Set(id, adminSession{Username: username, CreatedAt: time.Now()}, cache.DefaultExpiration)
	s.logger.Infof("Admin %s logged in", username)
	return id
}

// Valid reports whether id names a live session
func (s *SessionService) Valid(id string) bool {
	if id == "" {
		return false
	}
	_, found := s.sessions.Get(id)
	return found
}

// Destroy ends a session
func (s *SessionService) Destroy(id string) {
	if data, found := s.sessions.Get(id); found {
		if session, ok := data.(adminSession); ok {
			s.logger.Infof("Admin %s logged out", session.Username)
		}
	}
	s.sessions.Delete(id)
}
