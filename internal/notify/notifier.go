// Package notify maps detected feed updates onto configured delivery
// channels. Channel kinds are a closed set: each kind implements the
// Builder interface and is selected by the kind string persisted on the
// channel. Adding a kind means adding a variant here, not runtime
// discovery.
package notify

import (
	"fmt"
	"net/http"
	"sort"

	"notifeed/internal/storage"
)

// Request is a built, channel-specific payload ready to be delivered.
type Request struct {
	Method  string
	Headers http.Header
	Body    []byte
}

// Builder constructs the wire payload a channel kind expects.
type Builder interface {
	Build(feed *storage.Feed, post *storage.Post) (*Request, error)
}

var builders = map[string]Builder{
	"discord": discordBuilder{},
	"slack":   slackBuilder{},
	"ntfy":    ntfyBuilder{},
	"webhook": genericBuilder{},
}

// Kinds lists the supported channel kinds for CLI validation and help.
func Kinds() []string {
	kinds := make([]string, 0, len(builders))
	for kind := range builders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func builderFor(kind string) (Builder, error) {
	builder, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown channel kind %q", kind)
	}
	return builder, nil
}

func jsonRequest(body []byte) *Request {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	return &Request{
		Method:  http.MethodPost,
		Headers: headers,
		Body:    body,
	}
}
