package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"uid-intake-bot/internal/constants"
	apperrors "uid-intake-bot/internal/errors"
)

// Telegram accepts only these characters in a webhook secret token
var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

// Load loads the configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	// A missing .env is normal in containers
	_ = godotenv.Load()

	return loadFrom(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TELEGRAM_API_URL", constants.DefaultTelegramAPIURL)
	v.SetDefault("TELEGRAM_RUN_MODE", RunModeLongpoll)
	v.SetDefault("NOTIFY_WORKERS", constants.DefaultNotifyWorkers)
	v.SetDefault("HTTP_ADDR", "")
	v.SetDefault("ADMIN_USERNAME", constants.DefaultAdminUsername)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("DB_MAX_CONNS", constants.DefaultDBMaxConnections)
	v.SetDefault("SUPABASE_STORAGE_BUCKET", constants.DefaultStorageBucket)
	v.SetDefault("REQUIRE_SCREENSHOT", true)
	v.SetDefault("STATE_TTL", constants.StateExpiration*time.Minute)

	// Define environment variables
	v.BindEnv("TELEGRAM_BOT_TOKEN")
	v.BindEnv("TG_ADMIN_IDS")
	v.BindEnv("WEBHOOK_URL")
	v.BindEnv("WEBHOOK_SECRET")
	v.BindEnv("PORT")
	v.BindEnv("ADMIN_PASSWORD")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("SUPABASE_URL")
	v.BindEnv("SUPABASE_SERVICE_ROLE_KEY")
	v.BindEnv("SUPABASE_ANON_KEY")
	v.BindEnv("WELCOME_VIDEO_PATH")
	v.BindEnv("REGISTRATION_LINK")
	v.BindEnv("VIP_CHANNEL_LINK")
	v.BindEnv("SUPPORT_CONTACT")

	return v
}

func loadFrom(v *viper.Viper) (*Config, error) {
	// Create config instance
	cfg := &Config{
		LogLevel: v.GetString("LOG_LEVEL"),
		Telegram: TelegramConfig{
			Token:         strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
			APIURL:        strings.TrimRight(strings.TrimSpace(v.GetString("TELEGRAM_API_URL")), "/"),
			RunMode:       strings.ToLower(strings.TrimSpace(v.GetString("TELEGRAM_RUN_MODE"))),
			WebhookURL:    strings.TrimSpace(v.GetString("WEBHOOK_URL")),
			WebhookSecret: strings.TrimSpace(v.GetString("WEBHOOK_SECRET")),
			NotifyWorkers: v.GetInt("NOTIFY_WORKERS"),
		},
		Server: ServerConfig{
			Addr: resolveAddr(v.GetString("HTTP_ADDR"), v.GetString("PORT")),
		},
		Admin: AdminConfig{
			Username:     strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
			Password:     v.GetString("ADMIN_PASSWORD"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Database: DatabaseConfig{
			URL:            strings.TrimSpace(v.GetString("DATABASE_URL")),
			MaxConnections: v.GetInt("DB_MAX_CONNS"),
		},
		Storage: StorageConfig{
			SupabaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("SUPABASE_URL")), "/"),
			Bucket:      strings.TrimSpace(v.GetString("SUPABASE_STORAGE_BUCKET")),
		},
		Flow: FlowConfig{
			RequireScreenshot: v.GetBool("REQUIRE_SCREENSHOT"),
			StateTTL:          v.GetDuration("STATE_TTL"),
			WelcomeVideoPath:  strings.TrimSpace(v.GetString("WELCOME_VIDEO_PATH")),
			RegistrationLink:  strings.TrimSpace(v.GetString("REGISTRATION_LINK")),
			VIPChannelLink:    strings.TrimSpace(v.GetString("VIP_CHANNEL_LINK")),
			SupportContact:    strings.TrimSpace(v.GetString("SUPPORT_CONTACT")),
		},
	}

	// Prefer the service role key: it bypasses row level security on the backend
	cfg.Storage.APIKey = strings.TrimSpace(v.GetString("SUPABASE_SERVICE_ROLE_KEY"))
	if cfg.Storage.APIKey == "" {
		cfg.Storage.APIKey = strings.TrimSpace(v.GetString("SUPABASE_ANON_KEY"))
	}

	// Parse admin IDs
	adminIDsStr := v.GetString("TG_ADMIN_IDS")
	if adminIDsStr != "" {
		adminIDsSlice := strings.Split(adminIDsStr, ",")
		adminIDs := make([]int64, 0, len(adminIDsSlice))
		for _, idStr := range adminIDsSlice {
			var id int64
			if _, err := fmt.Sscanf(strings.TrimSpace(idStr), "%d", &id); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
		cfg.Telegram.AdminIDs = adminIDs
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveAddr prefers HTTP_ADDR, then PORT, then the default listen address
func resolveAddr(addr, port string) string {
	if addr = strings.TrimSpace(addr); addr != "" {
		return addr
	}
	if port = strings.TrimSpace(port); port != "" {
		return ":" + port
	}
	return constants.DefaultHTTPAddr
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return &apperrors.ConfigError{Section: "telegram", Message: "TELEGRAM_BOT_TOKEN is required"}
	}

	switch cfg.Telegram.RunMode {
	case "polling", "":
		cfg.Telegram.RunMode = RunModeLongpoll
	case RunModeLongpoll:
	case RunModeWebhook:
		if cfg.Telegram.WebhookURL == "" {
			return &apperrors.ConfigError{Section: "telegram", Message: "WEBHOOK_URL is required in webhook mode"}
		}
		if cfg.Telegram.WebhookSecret == "" {
			return &apperrors.ConfigError{Section: "telegram", Message: "WEBHOOK_SECRET is required in webhook mode"}
		}
		if !webhookSecretPattern.MatchString(cfg.Telegram.WebhookSecret) {
			return &apperrors.ConfigError{Section: "telegram", Message: "WEBHOOK_SECRET must be 1-256 characters of A-Z, a-z, 0-9, _ or -"}
		}
	default:
		return &apperrors.ConfigError{Section: "telegram", Message: fmt.Sprintf("invalid TELEGRAM_RUN_MODE %q", cfg.Telegram.RunMode)}
	}

	if cfg.Telegram.NotifyWorkers <= 0 {
		cfg.Telegram.NotifyWorkers = constants.DefaultNotifyWorkers
	}

	if cfg.Database.URL == "" {
		return &apperrors.ConfigError{Section: "database", Message: "DATABASE_URL is required"}
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = constants.DefaultDBMaxConnections
	}

	if cfg.Admin.Username == "" {
		cfg.Admin.Username = constants.DefaultAdminUsername
	}

	if cfg.Flow.StateTTL < 0 {
		return &apperrors.ConfigError{Section: "flow", Message: "STATE_TTL must not be negative"}
	}

	// Screenshots can only be stored when object storage is configured
	if cfg.Flow.RequireScreenshot {
		if cfg.Storage.SupabaseURL == "" || cfg.Storage.APIKey == "" {
			return &apperrors.ConfigError{Section: "storage", Message: "SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required when screenshots are required"}
		}
		if cfg.Storage.Bucket == "" {
			cfg.Storage.Bucket = constants.DefaultStorageBucket
		}
	}

	return nil
}
