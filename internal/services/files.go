package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"uid-intake-bot/internal/constants"
	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/helpers"
	"uid-intake-bot/internal/models"
)

// FileResolver resolves a Telegram file id into a downloadable path
type FileResolver interface {
	FileByID(fileID string) (telebot.File, error)
}

// DownloadedFile is a Telegram file fetched into memory
type DownloadedFile struct {
	Data      []byte
	Extension string
}

// FileService downloads files users send to the bot
type FileService struct {
	resolver   FileResolver
	httpClient *resty.Client
	apiURL     string
	token      string
	logger     *logrus.Logger
}

// NewFileService creates a new file service
func NewFileService(resolver FileResolver, apiURL, token string, logger *logrus.Logger) *FileService {
	httpClient := resty.New().
		SetTimeout(constants.DefaultDownloadTimeout * time.Second).
		SetRetryCount(constants.DefaultRetryCount)

	return &FileService{
		resolver:   resolver,
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
		logger:     logger,
	}
}

// Download resolves the file path with getFile and fetches the content
func (s *FileService) Download(ctx context.Context, file models.IncomingFile) (*DownloadedFile, error) {
	resolved, err := s.resolver.FileByID(file.FileID)
	if err != nil {
		return nil, &apperrors.TelegramFileError{FileID: file.FileID, Message: err.Error()}
	}
	if resolved.FilePath == "" {
		return nil, &apperrors.TelegramFileError{FileID: file.FileID, Message: "provider returned no file path"}
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/file/bot%s/%s", s.apiURL, s.token, resolved.FilePath))
	if err != nil {
		// The request URL carries the bot token, keep it out of logs
		return nil, &apperrors.TelegramFileError{FileID: file.FileID, Message: "download request failed"}
	}

	if resp.StatusCode() != http.StatusOK {
		s.logger.Errorf("File download failed - File: %s, Status: %d", file.FileID, resp.StatusCode())
		return nil, &apperrors.TelegramFileError{
			FileID:  file.FileID,
			Status:  resp.StatusCode(),
			Message: "unexpected download status",
		}
	}

	ext := helpers.FileExtension(resolved.FilePath, file.FileName)
	s.logger.Debugf("Downloaded file %s (%d bytes, .%s)", file.FileID, len(resp.Body()), ext)

	return &DownloadedFile{
		Data:      resp.Body(),
		Extension: ext,
	}, nil
}
