package handlers

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"uid-intake-bot/internal/models"
)

// NewIncoming converts a telebot update into the flow's message type
func NewIncoming(c telebot.Context) *models.Incoming {
	return convertMessage(c.Sender(), c.Chat(), c.Message())
}

func convertMessage(sender *telebot.User, chat *telebot.Chat, msg *telebot.Message) *models.Incoming {
	in := &models.Incoming{Kind: models.KindOther}

	if sender != nil {
		in.User = models.TelegramUser{
			ID:        sender.ID,
			Username:  sender.Username,
			FirstName: sender.FirstName,
			LastName:  sender.LastName,
		}
	}

	if chat != nil {
		in.ChatID = chat.ID
	} else {
		in.ChatID = in.User.ID
	}

	if msg == nil {
		return in
	}

	switch {
	case msg.Photo != nil:
		// telebot keeps the last, largest size of the photo array
		in.Kind = models.KindPhoto
		in.Text = msg.Caption
		in.File = &models.IncomingFile{
			FileID:   msg.Photo.FileID,
			FilePath: msg.Photo.FilePath,
			MIMEType: "image/jpeg",
		}
	case msg.Document != nil:
		in.Kind = models.KindDocument
		in.Text = msg.Caption
		in.File = &models.IncomingFile{
			FileID:   msg.Document.FileID,
			FilePath: msg.Document.FilePath,
			FileName: msg.Document.FileName,
			MIMEType: msg.Document.MIME,
		}
	case msg.Video != nil:
		in.Kind = models.KindVideo
		in.Text = msg.Caption
		in.File = &models.IncomingFile{
			FileID:   msg.Video.FileID,
			FilePath: msg.Video.FilePath,
			FileName: msg.Video.FileName,
			MIMEType: msg.Video.MIME,
		}
	case strings.HasPrefix(msg.Text, "/"):
		in.Kind = models.KindCommand
		in.Text = msg.Text
		in.Command = parseCommand(msg.Text)
	case msg.Text != "":
		in.Kind = models.KindText
		in.Text = msg.Text
	}

	return in
}

// parseCommand returns "/start" for "/start@bot payload"
func parseCommand(text string) string {
	command := strings.Fields(text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return strings.ToLower(command)
}
