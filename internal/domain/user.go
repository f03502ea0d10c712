package domain

import "time"

type Authorization string

const (
	AuthorizationUndetermined Authorization = "undetermined"
	AuthorizationAuthorized   Authorization = "authorized"
	AuthorizationDenied       Authorization = "denied"
)

// User is the owner of records and alerts. A linked Telegram chat is the
// platform channel notifications are pushed to.
type User struct {
	ID             string
	TelegramChatID *int64
	Authorization  Authorization
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
