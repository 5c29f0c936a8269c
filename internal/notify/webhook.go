package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"notifeed/internal/storage"
)

// rateLimitBackoff is the fixed wait between attempts after a 429.
const rateLimitBackoff = 5 * time.Second

// Sender delivers built payloads to channel endpoints. Rate-limited
// responses are retried with a fixed backoff; every other status, success
// or failure, ends the attempt loop immediately.
type Sender struct {
	client  *http.Client
	Backoff time.Duration
}

func NewSender(client *http.Client) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sender{
		client:  client,
		Backoff: rateLimitBackoff,
	}
}

// Send issues the request to the channel endpoint, attaching the bearer
// credential if one is configured. It returns the final response status.
// At most retryLimit attempts are made.
func (s *Sender) Send(ctx context.Context, channel *storage.Channel, req *Request, retryLimit int) (int, error) {
	if retryLimit < 1 {
		retryLimit = 1
	}

	var status int
	for attempt := 1; attempt <= retryLimit; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, channel.Endpoint, bytes.NewReader(req.Body))
		if err != nil {
			return 0, err
		}
		for name, values := range req.Headers {
			for _, value := range values {
				httpReq.Header.Add(name, value)
			}
		}
		if channel.Token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+channel.Token)
		}

		resp, err := s.client.Do(httpReq)
		if err != nil {
			return 0, err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		status = resp.StatusCode
		if status != http.StatusTooManyRequests {
			return status, nil
		}

		if attempt == retryLimit {
			break
		}

		select {
		case <-time.After(s.Backoff):
		case <-ctx.Done():
			return status, ctx.Err()
		}
	}

	return status, nil
}
