package notify

import (
	"encoding/json"
	"fmt"

	"notifeed/internal/storage"
)

type slackBuilder struct{}

func (slackBuilder) Build(feed *storage.Feed, post *storage.Post) (*Request, error) {
	article := map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*<%s|%s>*\n%s", post.Link, post.Title, post.Summary),
		},
	}
	if post.Thumbnail != "" {
		article["accessory"] = map[string]any{
			"type":      "image",
			"image_url": post.Thumbnail,
			"alt_text":  post.Title,
		}
	}

	blocks := []any{
		map[string]any{
			"type": "section",
			"text": map[string]any{
				"type": "mrkdwn",
				"text": fmt.Sprintf("New post from %s!", feed.Name),
			},
		},
		map[string]any{"type": "divider"},
		article,
	}

	if !post.Published.IsZero() {
		line := post.Published.Format("January 02 2006")
		if post.AuthorName != "" {
			line = fmt.Sprintf("By %s - %s", post.AuthorName, line)
		}
		blocks = append(blocks, map[string]any{
			"type": "context",
			"elements": []any{
				map[string]any{"type": "mrkdwn", "text": line},
			},
		})
	}

	payload := map[string]any{
		"text":   fmt.Sprintf("New post from %s: %s", feed.Name, post.Title),
		"blocks": blocks,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return jsonRequest(body), nil
}
