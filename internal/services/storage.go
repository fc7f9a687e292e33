package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/constants"
	"uid-intake-bot/internal/helpers"
	"uid-intake-bot/internal/models"
)

// ObjectStorage stores public objects
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

// Downloader fetches a file a user sent to the bot
type Downloader interface {
	Download(ctx context.Context, file models.IncomingFile) (*DownloadedFile, error)
}

// ScreenshotService moves deposit screenshots from Telegram into object storage
type ScreenshotService struct {
	files   Downloader
	storage ObjectStorage
	logger  *logrus.Logger
}

// NewScreenshotService creates a new screenshot service
func NewScreenshotService(files Downloader, storage ObjectStorage, logger *logrus.Logger) *ScreenshotService {
	return &ScreenshotService{
		files:   files,
		storage: storage,
		logger:  logger,
	}
}

// ScreenshotKey builds a unique object key for an image extension
func ScreenshotKey(ext string) string {
	return fmt.Sprintf("%s/%s.%s", constants.ScreenshotKeyPrefix, uuid.NewString(), ext)
}

// StoreScreenshot downloads the file and uploads it, returning its public URL
func (s *ScreenshotService) StoreScreenshot(ctx context.Context, file models.IncomingFile) (string, error) {
	downloaded, err := s.files.Download(ctx, file)
	if err != nil {
		return "", fmt.Errorf("download screenshot: %w", err)
	}

	key := ScreenshotKey(downloaded.Extension)
	if err := s.storage.Upload(ctx, key, helpers.ImageContentType(downloaded.Extension), downloaded.Data); err != nil {
		return "", fmt.Errorf("upload screenshot: %w", err)
	}

	url := s.storage.PublicURL(key)
	s.logger.Infof("Stored screenshot %s", key)
	return url, nil
}
