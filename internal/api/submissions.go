package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/helpers"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/validation"
)

type updateSubmissionRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// parseFilter turns the status and search query parameters into a filter
func parseFilter(status, search string) (models.SubmissionFilter, error) {
	var filter models.SubmissionFilter

	if status != "" && status != models.StatusFilterAll {
		parsed, err := validation.ParseStatus(status)
		if err != nil {
			return filter, err
		}
		filter.Status = &parsed
	}

	term := strings.TrimSpace(search)
	if term == "" {
		return filter, nil
	}

	if id, ok := helpers.ParseUserID(term); ok {
		filter.UserID = &id
	} else {
		filter.Username = &term
	}

	return filter, nil
}

func (s *Server) handleListSubmissions(c *gin.Context) {
	filter, err := parseFilter(c.Query("status"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subs, err := s.submissions.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Errorf("Error fetching submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (s *Server) handleUpdateSubmission(c *gin.Context) {
	id, ok := submissionID(c)
	if !ok {
		return
	}

	var req updateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var update models.SubmissionUpdate
	if req.Status != nil {
		if status, err := validation.ParseStatus(*req.Status); err == nil {
			update.Status = &status
		}
	}
	update.Notes = req.Notes

	if update.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	res, err := s.submissions.Update(c.Request.Context(), id, update)
	if errors.Is(err, apperrors.ErrSubmissionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if err != nil {
		s.logger.Errorf("Error updating submission %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	if s.notifier.NotifyStatusChange(res) {
		s.logger.Infof("Submission %s moved from %s to %s, user notification queued",
			id, res.PreviousStatus, res.Submission.Status)
	}

	c.JSON(http.StatusOK, gin.H{"submission": res.Submission})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	id, ok := submissionID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	_ = c.ShouldBindJSON(&req)

	text, err := validation.ValidateMessage(req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	sub, err := s.submissions.GetByID(c.Request.Context(), id)
	if errors.Is(err, apperrors.ErrSubmissionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if err != nil {
		s.logger.Errorf("Error fetching submission %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if sub.TelegramUserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID not found for this submission"})
		return
	}

	if !s.notifier.SendCustom(c.Request.Context(), sub, text) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully"})
}

// submissionID reads the :id parameter; malformed ids are answered with 404
func submissionID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return "", false
	}
	return id, true
}
