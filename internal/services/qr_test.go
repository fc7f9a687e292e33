package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotLinkQR(t *testing.T) {
	s := NewQRService(newTestLogger())

	png, err := s.BotLinkQR("intake_bot")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = s.BotLinkQR("")
	assert.Error(t, err)

	assert.Equal(t, "https://t.me/intake_bot", BotLink("intake_bot"))
}
