package storage

import (
	"time"
)

// Feed is a remote RSS/Atom feed being watched. The URL is its identity.
type Feed struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Post is the canonical form of one feed entry. Only the most recently
// seen post per feed is kept durably; everything else is transient.
type Post struct {
	ID          string    `json:"id"`
	FeedURL     string    `json:"feed_url"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Published   time.Time `json:"published"`
	Summary     string    `json:"summary"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	AuthorName  string    `json:"author_name,omitempty"`
	AuthorLink  string    `json:"author_link,omitempty"`
	ContentHash string    `json:"content_hash"`
}

// Channel is a named delivery endpoint. Kind selects the payload builder.
type Channel struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Endpoint string `json:"endpoint"`
	Token    string `json:"token,omitempty"`
}

// Subscription links a feed to a channel. NotifyOnUpdate controls whether
// in-place edits of an already-seen post also fire a notification.
type Subscription struct {
	FeedURL        string `json:"feed_url"`
	Channel        string `json:"channel"`
	NotifyOnUpdate bool   `json:"notify_on_update"`
}
