package config

import "time"

// Run modes for receiving Telegram updates
const (
	RunModeLongpoll = "longpoll"
	RunModeWebhook  = "webhook"
)

// Config represents the application configuration
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Flow     FlowConfig     `mapstructure:"flow"`
	LogLevel string         `mapstructure:"log_level"`
}

// TelegramConfig holds the Telegram bot configuration
type TelegramConfig struct {
	Token         string  `mapstructure:"token"`
	APIURL        string  `mapstructure:"api_url"`
	AdminIDs      []int64 `mapstructure:"admin_ids"`
	RunMode       string  `mapstructure:"run_mode"`
	WebhookURL    string  `mapstructure:"webhook_url"`
	WebhookSecret string  `mapstructure:"webhook_secret"`
	NotifyWorkers int     `mapstructure:"notify_workers"`
}

// ServerConfig holds the admin HTTP server configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// AdminConfig holds the admin panel credentials
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// StorageConfig holds the Supabase Storage settings
type StorageConfig struct {
	SupabaseURL string `mapstructure:"supabase_url"`
	APIKey      string `mapstructure:"api_key"`
	Bucket      string `mapstructure:"bucket"`
}

// FlowConfig holds the intake flow settings
type FlowConfig struct {
	RequireScreenshot bool          `mapstructure:"require_screenshot"`
	StateTTL          time.Duration `mapstructure:"state_ttl"`
	WelcomeVideoPath  string        `mapstructure:"welcome_video_path"`
	RegistrationLink  string        `mapstructure:"registration_link"`
	VIPChannelLink    string        `mapstructure:"vip_channel_link"`
	SupportContact    string        `mapstructure:"support_contact"`
}
