package constants

const (
	// UID validation constants
	UIDLength = 7

	// Network constants
	DefaultTimeout          = 30
	DefaultRetryCount       = 0
	DefaultDownloadTimeout  = 60
	DefaultTelegramAPIURL   = "https://api.telegram.org"
	DefaultLongPollTimeout  = 10
	DefaultHTTPAddr         = ":3000"
	DefaultShutdownTimeout  = 5
	DefaultNotifyWorkers    = 4
	DefaultNotifyQueueSize  = 256
	DefaultDBMaxConnections = 10

	// Cache constants
	StateExpiration        = 24 * 60 // minutes
	StateCleanupInterval   = 10      // minutes
	SessionExpiration      = 24 * 60 // minutes
	SessionCleanupInterval = 30      // minutes

	// Storage constants
	DefaultStorageBucket = "screenshots"
	ScreenshotKeyPrefix  = "screenshots"
	DefaultFileExtension = "jpg"

	// Admin panel constants
	DefaultAdminUsername = "admin"
	SessionCookieName    = "admin.sid"
	SessionCookieMaxAge  = 24 * 60 * 60 // seconds

	// Formatting constants
	TimestampFormat = "2006-01-02 15:04:05"
)
