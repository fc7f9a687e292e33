package telegrambot

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// updateProcessor is satisfied by *telebot.Bot
type updateProcessor interface {
	ProcessUpdate(u telebot.Update)
}

// webhookHandler decodes webhook updates and hands them to the bot directly,
// without waiting for the poller to start.
type webhookHandler struct {
	bot    updateProcessor
	secret string
	logger *logrus.Logger
}

func newWebhookHandler(bot updateProcessor, secret string, logger *logrus.Logger) *webhookHandler {
	return &webhookHandler{bot: bot, secret: secret, logger: logger}
}

// ServeHTTP implements http.Handler
func (h *webhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			h.logger.Warnf("Rejected webhook request from %s: bad secret token", r.RemoteAddr)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var update telebot.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Errorf("Cannot decode webhook update: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.bot.ProcessUpdate(update)
	w.WriteHeader(http.StatusOK)
}
