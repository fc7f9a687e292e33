package models

import "time"

// SubmissionStatus is the review status of a submission
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "Pending"
	StatusApproved SubmissionStatus = "Approved"
	StatusRejected SubmissionStatus = "Rejected"
)

// StatusFilterAll is accepted by the list endpoint and means no status filter
const StatusFilterAll = "All"

// Valid reports whether s is one of the known statuses
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission is one user's UID/screenshot intake awaiting admin review
type Submission struct {
	ID                string           `db:"id" json:"id"`
	TelegramUserID    int64            `db:"telegram_user_id" json:"telegram_user_id"`
	TelegramUsername  *string          `db:"telegram_username" json:"telegram_username"`
	TelegramFirstName string           `db:"telegram_first_name" json:"telegram_first_name"`
	TelegramLastName  *string          `db:"telegram_last_name" json:"telegram_last_name"`
	UserUID           *string          `db:"user_uid" json:"user_uid"`
	ImageURL          string           `db:"image_url" json:"image_url"`
	Status            SubmissionStatus `db:"status" json:"status"`
	Notes             string           `db:"notes" json:"notes"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
}

// Recipient returns the Telegram identity the submission belongs to
func (s *Submission) Recipient() TelegramUser {
	user := TelegramUser{ID: s.TelegramUserID, FirstName: s.TelegramFirstName}
	if s.TelegramUsername != nil {
		user.Username = *s.TelegramUsername
	}
	if s.TelegramLastName != nil {
		user.LastName = *s.TelegramLastName
	}
	return user
}

// NewSubmission holds the data the bot collects before a row exists
type NewSubmission struct {
	User     TelegramUser
	UID      string
	ImageURL string
}

// SubmissionFilter narrows the admin listing
type SubmissionFilter struct {
	Status *SubmissionStatus
	// Exactly one of UserID or Username is set when a search term was given
	UserID   *int64
	Username *string
}

// SubmissionUpdate carries the admin-editable fields; nil means unchanged
type SubmissionUpdate struct {
	Status *SubmissionStatus
	Notes  *string
}

// Empty reports whether the update changes nothing
func (u SubmissionUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil
}

// UpdatedSubmission is the result of an admin update
type UpdatedSubmission struct {
	Submission     *Submission
	PreviousStatus SubmissionStatus
}

// StatusChanged reports whether the update moved the submission into a new status
func (u *UpdatedSubmission) StatusChanged() bool {
	return u.Submission.Status != u.PreviousStatus
}
