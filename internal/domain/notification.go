package domain

import "time"

type Notification struct {
	UserID string
	Title  string
	Body   string
	Link   Link
}

// Link is opaque deep-link data interpreted by the UI.
type Link struct {
	URL string `json:"url"`
}

// Advisory is the in-app fallback shown when the platform channel cannot deliver.
type Advisory struct {
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	URL       string    `json:"url,omitempty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}
