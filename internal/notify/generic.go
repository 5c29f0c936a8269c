package notify

import (
	"encoding/json"

	"notifeed/internal/storage"
)

// genericBuilder is the lowest-common-denominator chat webhook shape,
// accepted by most services that understand embeds.
type genericBuilder struct{}

func (genericBuilder) Build(feed *storage.Feed, post *storage.Post) (*Request, error) {
	payload := map[string]any{
		"text": post.Title,
		"embeds": []map[string]any{
			{
				"title":       post.Title,
				"url":         post.Link,
				"description": post.Summary,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return jsonRequest(body), nil
}
