package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"uid-intake-bot/internal/constants"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	if !s.sessions.CheckCredentials(req.Username, req.Password) {
		s.logger.Warnf("Failed admin login for %q from %s", req.Username, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	id := s.sessions.Create(req.Username)
	s.setSessionCookie(c, id, constants.SessionCookieMaxAge)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleLogout(c *gin.Context) {
	if id, err := c.Cookie(constants.SessionCookieName); err == nil {
		s.sessions.Destroy(id)
	}

	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": s.authenticated(c)})
}

// requireAuth rejects requests without a live admin session
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authenticated(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) authenticated(c *gin.Context) bool {
	id, err := c.Cookie(constants.SessionCookieName)
	if err != nil {
		return false
	}
	return s.sessions.Valid(id)
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, value, maxAge, "/", "", s.config.CookieSecure, true)
}
