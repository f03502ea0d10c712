package telegram

import (
	"errors"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
)

const HelpText = `Commands:
/start <user_id> - link this chat to your care profile
/help - show this help
/alerts [YYYY-MM-DD] - list alerts, optionally since a date
/summary [YYYY-MM] - monthly alert summary
/mute - stop alert messages in this chat
/unmute - resume alert messages

Alerts that cannot be sent here still appear in the app.
Example:
/start 7f1c2a
/summary 2024-05
`

var ErrInvalidArguments = errors.New("invalid arguments")

func ParseUserID(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "", ErrInvalidArguments
	}
	return fields[0], nil
}

// ParseSince accepts an empty argument or a single YYYY-MM-DD date.
func ParseSince(args string) (string, error) {
	since := strings.TrimSpace(args)
	if since == "" {
		return "", nil
	}
	if _, err := time.Parse(domain.DateLayout, since); err != nil {
		return "", ErrInvalidArguments
	}
	return since, nil
}

// ParseMonth defaults to the month of now.
func ParseMonth(args string, now time.Time) (string, error) {
	month := strings.TrimSpace(args)
	if month == "" {
		return now.Format(domain.MonthLayout), nil
	}
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		return "", ErrInvalidArguments
	}
	return month, nil
}
