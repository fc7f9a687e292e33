package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/models"
)

func TestStatusMessage(t *testing.T) {
	c := NewCatalog(config.FlowConfig{
		VIPChannelLink: "https://t.me/+vip",
		SupportContact: "@team",
	})

	text, ok := c.StatusMessage(models.StatusApproved)
	assert.True(t, ok)
	assert.Contains(t, text, "https://t.me/+vip")

	text, ok = c.StatusMessage(models.StatusRejected)
	assert.True(t, ok)
	assert.Contains(t, text, "@team")

	_, ok = c.StatusMessage(models.StatusPending)
	assert.False(t, ok)
}

func TestWelcomeWithoutLinks(t *testing.T) {
	c := NewCatalog(config.FlowConfig{})

	assert.Contains(t, c.Welcome(true), "screenshot")
	assert.NotContains(t, c.Welcome(false), "screenshot")
	assert.NotContains(t, c.Verification(), "Join VIP Channel")
	assert.NotContains(t, c.Rejection(), "Contact Team")
}
