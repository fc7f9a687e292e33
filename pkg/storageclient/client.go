package storageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/constants"
	apperrors "uid-intake-bot/internal/errors"
)

// Client represents a Supabase Storage API client
type Client struct {
	httpClient *resty.Client
	baseURL    string
	bucket     string
	logger     *logrus.Logger
}

// StorageAPIResponse represents an error body returned by the Storage API
type StorageAPIResponse struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// UploadResponse represents a successful upload
type UploadResponse struct {
	Key string `json:"Key"`
}

// NewClient creates a new Storage API client
func NewClient(cfg config.StorageConfig, logger *logrus.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(constants.DefaultTimeout*time.Second).
		SetRetryCount(constants.DefaultRetryCount).
		SetAuthToken(cfg.APIKey).
		SetHeader("apikey", cfg.APIKey)

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		bucket:     cfg.Bucket,
		logger:     logger,
	}
}

// Upload stores an object under key; existing objects are not overwritten
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	c.logger.Debugf("Uploading %d bytes to %s/%s", len(data), c.bucket, key)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBody(data).
		Post(c.objectURL("object", key))

	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Errorf("Upload failed - Bucket: %s, Key: %s, Status: %d, Response: %s",
			c.bucket, key, resp.StatusCode(), string(resp.Body()))
		return &apperrors.StorageAPIError{
			Operation: "upload",
			Status:    resp.StatusCode(),
			Message:   errorMessage(resp.Body()),
		}
	}

	var uploaded UploadResponse
	if err := json.Unmarshal(resp.Body(), &uploaded); err == nil && uploaded.Key != "" {
		c.logger.Debugf("Stored object %s", uploaded.Key)
	}

	return nil
}

// PublicURL returns the public address of an object in a public bucket
func (c *Client) PublicURL(key string) string {
	return c.objectURL("object/public", key)
}

func (c *Client) objectURL(route, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/storage/v1/%s/%s/%s", c.baseURL, route, url.PathEscape(c.bucket), strings.Join(segments, "/"))
}

func errorMessage(body []byte) string {
	var apiResp StorageAPIResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Message != "" {
		return apiResp.Message
	}
	return string(body)
}
