package commands

// TelegramCommands contains all commands for the Telegram bot
const (
	// Main commands
	Start = "/start"

	// Administrator commands
	Stats = "/stats"
)
