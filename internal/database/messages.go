package database

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/models"
)

const insertMessageSQL = `
	INSERT INTO messages
	(telegram_user_id, telegram_username, telegram_first_name, telegram_last_name,
	message_text, direction, message_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const messageStatisticsSQL = `
	SELECT
		COUNT(*) FILTER (WHERE direction = 'outgoing') AS total_sent,
		COUNT(*) FILTER (WHERE direction = 'incoming') AS total_received,
		COUNT(DISTINCT telegram_user_id) FILTER (WHERE direction = 'outgoing') AS unique_users_messaged
	FROM messages`

// MessageRepository writes the bot message audit trail
type MessageRepository struct {
	db           *sqlx.DB
	logger       *logrus.Logger
	missingTable sync.Once
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sqlx.DB, logger *logrus.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

// Log appends one message to the audit trail. Failures are logged and swallowed.
func (r *MessageRepository) Log(ctx context.Context, entry models.MessageLog) bool {
	msgType := entry.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	_, err := r.db.ExecContext(ctx, insertMessageSQL,
		entry.User.ID,
		nullableString(entry.User.Username),
		nullableString(entry.User.FirstName),
		nullableString(entry.User.LastName),
		entry.Text,
		string(entry.Direction),
		string(msgType),
	)
	if err == nil {
		return true
	}

	if code, _ := pqCode(err); code == codeUndefinedTable {
		r.missingTable.Do(func() {
			r.logger.Error("messages table does not exist, message logging is disabled until it is created")
		})
		return false
	}

	r.logger.Warnf("Failed to log %s message for user %d (non-critical): %v", entry.Direction, entry.User.ID, err)
	return false
}

// Statistics summarizes the audit trail. Failures yield zero counts.
func (r *MessageRepository) Statistics(ctx context.Context) models.MessageStatistics {
	var stats models.MessageStatistics

	if err := r.db.GetContext(ctx, &stats, messageStatisticsSQL); err != nil {
		r.logger.Errorf("Failed to get message statistics: %v", err)
		return models.MessageStatistics{}
	}

	stats.TotalMessages = stats.TotalSent + stats.TotalReceived
	return stats
}
