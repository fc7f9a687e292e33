package models

// Direction of a logged bot message
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// MessageType is the coarse type tag stored in the message log
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypePhoto    MessageType = "photo"
	MessageTypeDocument MessageType = "document"
	MessageTypeVideo    MessageType = "video"
	MessageTypeCommand  MessageType = "command"
)

// MessageLog is one row of the append-only audit trail
type MessageLog struct {
	User      TelegramUser
	Text      string
	Direction Direction
	Type      MessageType
}

// MessageStatistics summarizes the audit trail
type MessageStatistics struct {
	TotalSent           int64 `db:"total_sent" json:"totalSent"`
	TotalReceived       int64 `db:"total_received" json:"totalReceived"`
	UniqueUsersMessaged int64 `db:"unique_users_messaged" json:"uniqueUsersMessaged"`
	TotalMessages       int64 `db:"-" json:"totalMessages"`
}
