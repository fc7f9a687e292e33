package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "uid-intake-bot/internal/errors"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := loadFrom(newViper())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.True(t, cfg.Flow.RequireScreenshot)
	assert.Equal(t, 24*time.Hour, cfg.Flow.StateTTL)
	assert.Equal(t, "https://proj.supabase.co", cfg.Storage.SupabaseURL)
	assert.Equal(t, "service-key", cfg.Storage.APIKey)
	assert.Equal(t, "screenshots", cfg.Storage.Bucket)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TG_ADMIN_IDS", "1, 2,oops,3")
	t.Setenv("PORT", "8080")
	t.Setenv("REQUIRE_SCREENSHOT", "false")
	t.Setenv("STATE_TTL", "0s")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := loadFrom(newViper())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, cfg.Telegram.AdminIDs)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Flow.RequireScreenshot)
	assert.Equal(t, time.Duration(0), cfg.Flow.StateTTL)
	assert.Equal(t, "anon", cfg.Storage.APIKey)
}

func TestLoadMissingToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := loadFrom(newViper())
	var cfgErr *apperrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "telegram", cfgErr.Section)
}

func TestLoadWebhookRequiresURLAndSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_RUN_MODE", "webhook")
	t.Setenv("WEBHOOK_SECRET", "")

	_, err := loadFrom(newViper())
	require.Error(t, err)

	t.Setenv("WEBHOOK_URL", "https://bot.example.com/telegram/webhook")
	_, err = loadFrom(newViper())
	require.Error(t, err)

	t.Setenv("WEBHOOK_SECRET", "not allowed!")
	_, err = loadFrom(newViper())
	var cfgErr *apperrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "telegram", cfgErr.Section)

	t.Setenv("WEBHOOK_SECRET", "s3cret_Token-1")
	cfg, err := loadFrom(newViper())
	require.NoError(t, err)
	assert.Equal(t, RunModeWebhook, cfg.Telegram.RunMode)
	assert.Equal(t, "s3cret_Token-1", cfg.Telegram.WebhookSecret)
}

func TestLoadScreenshotNeedsStorage(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SUPABASE_URL", "")

	_, err := loadFrom(newViper())
	var cfgErr *apperrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "storage", cfgErr.Section)

	t.Setenv("REQUIRE_SCREENSHOT", "false")
	_, err = loadFrom(newViper())
	assert.NoError(t, err)
}
