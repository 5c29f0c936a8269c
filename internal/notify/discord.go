package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"notifeed/internal/storage"
)

type discordBuilder struct{}

type discordEmbed struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Thumbnail   *discordThumbnail `json:"thumbnail,omitempty"`
	Author      *discordAuthor    `json:"author,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

type discordAuthor struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

func (discordBuilder) Build(feed *storage.Feed, post *storage.Post) (*Request, error) {
	embed := discordEmbed{
		Title:       post.Title,
		URL:         post.Link,
		Description: post.Summary,
	}

	if post.Thumbnail != "" {
		embed.Thumbnail = &discordThumbnail{URL: post.Thumbnail}
	}
	if post.AuthorName != "" {
		embed.Author = &discordAuthor{Name: post.AuthorName, URL: post.AuthorLink}
	}
	if !post.Published.IsZero() {
		embed.Timestamp = post.Published.Format(time.RFC3339)
	}

	payload := map[string]any{
		"content": fmt.Sprintf("New post from %s!", feed.Name),
		"embeds":  []discordEmbed{embed},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return jsonRequest(body), nil
}
