package models

// TelegramUser is the denormalized identity of a Telegram user
type TelegramUser struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// UpdateKind classifies an inbound Telegram message
type UpdateKind int

const (
	KindOther UpdateKind = iota
	KindCommand
	KindText
	KindPhoto
	KindDocument
	KindVideo
)

// MessageType maps the update kind to the message log tag
func (k UpdateKind) MessageType() MessageType {
	switch k {
	case KindCommand:
		return MessageTypeCommand
	case KindPhoto:
		return MessageTypePhoto
	case KindDocument:
		return MessageTypeDocument
	case KindVideo:
		return MessageTypeVideo
	default:
		return MessageTypeText
	}
}

// IncomingFile describes a file attached to an inbound message
type IncomingFile struct {
	FileID   string
	FilePath string
	FileName string
	MIMEType string
}

// Incoming is a provider-neutral inbound message
type Incoming struct {
	User    TelegramUser
	ChatID  int64
	Kind    UpdateKind
	Command string
	Text    string
	File    *IncomingFile
}
