package notify

import (
	"fmt"
	"net/http"
	"strings"

	"notifeed/internal/storage"
)

// ntfy takes its metadata as headers and the summary as a plain-text body.
type ntfyBuilder struct{}

func (ntfyBuilder) Build(feed *storage.Feed, post *storage.Post) (*Request, error) {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/plain")
	headers.Set("Title", fmt.Sprintf("%s - %s", feed.Name, post.Title))
	headers.Set("Click", post.Link)
	headers.Set("Actions", strings.Join([]string{"view", "Go to post", post.Link}, ", "))

	return &Request{
		Method:  http.MethodPost,
		Headers: headers,
		Body:    []byte(post.Summary),
	}, nil
}
