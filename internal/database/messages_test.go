package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uid-intake-bot/internal/models"
)

func TestLogMessage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, newTestLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(int64(7), "bob", "Bob", nil, "/start", "incoming", "command").
		WillReturnResult(sqlmock.NewResult(1, 1))

	ok := repo.Log(context.Background(), models.MessageLog{
		User:      models.TelegramUser{ID: 7, Username: "bob", FirstName: "Bob"},
		Text:      "/start",
		Direction: models.DirectionIncoming,
		Type:      models.MessageTypeCommand,
	})
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogMessageFailuresAreSwallowed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, newTestLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "messages" does not exist`})
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnError(errors.New("timeout"))

	entry := models.MessageLog{User: models.TelegramUser{ID: 7}, Text: "hi", Direction: models.DirectionOutgoing}
	assert.False(t, repo.Log(context.Background(), entry))
	assert.False(t, repo.Log(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStatistics(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, newTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WillReturnRows(sqlmock.NewRows([]string{"total_sent", "total_received", "unique_users_messaged"}).
			AddRow(10, 25, 4))

	stats := repo.Statistics(context.Background())
	assert.Equal(t, int64(10), stats.TotalSent)
	assert.Equal(t, int64(25), stats.TotalReceived)
	assert.Equal(t, int64(4), stats.UniqueUsersMessaged)
	assert.Equal(t, int64(35), stats.TotalMessages)
}

func TestMessageStatisticsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, newTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).WillReturnError(errors.New("down"))

	assert.Equal(t, models.MessageStatistics{}, repo.Statistics(context.Background()))
}
