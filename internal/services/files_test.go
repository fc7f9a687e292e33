package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/models"
)

func TestFileServiceDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/botTOKEN/photos/file_1.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	bot := &fakeBot{files: map[string]telebot.File{
		"big": {FileID: "big", FilePath: "photos/file_1.png"},
	}}
	s := NewFileService(bot, server.URL+"/", "TOKEN", newTestLogger())

	file, err := s.Download(context.Background(), models.IncomingFile{FileID: "big"})
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), file.Data)
	assert.Equal(t, "png", file.Extension)
}

func TestFileServiceDownloadFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	bot := &fakeBot{files: map[string]telebot.File{
		"gone": {FileID: "gone", FilePath: "documents/file_2"},
	}}
	s := NewFileService(bot, server.URL, "TOKEN", newTestLogger())

	var fileErr *apperrors.TelegramFileError

	_, err := s.Download(context.Background(), models.IncomingFile{FileID: "unknown"})
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "unknown", fileErr.FileID)

	_, err = s.Download(context.Background(), models.IncomingFile{FileID: "gone"})
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, http.StatusNotFound, fileErr.Status)
	assert.NotContains(t, err.Error(), "TOKEN")
}
