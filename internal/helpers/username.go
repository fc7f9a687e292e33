package helpers

import (
	"strconv"
	"strings"

	"uid-intake-bot/internal/models"
)

// DisplayName returns a readable label for a Telegram user
// e.g. {Username: "trader"} -> "@trader", {FirstName: "Ann", LastName: "Lee"} -> "Ann Lee"
func DisplayName(user models.TelegramUser) string {
	if user.Username != "" {
		return "@" + user.Username
	}

	name := strings.TrimSpace(strings.Join([]string{user.FirstName, user.LastName}, " "))
	if name == "" {
		return "unknown"
	}
	return name
}

// ParseUserID parses a search term as a Telegram user id.
// Only whole integers qualify; "12abc" is a username search.
func ParseUserID(term string) (int64, bool) {
	id, err := strconv.ParseInt(term, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
