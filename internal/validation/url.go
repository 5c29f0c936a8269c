package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// FeedURLValidator checks feed URLs before they enter the store.
type FeedURLValidator struct {
	// AllowLocal permits localhost and private-range hosts, useful for
	// development and tests.
	AllowLocal bool
	MaxLength  int
}

func NewFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocal: false,
		MaxLength:  2048,
	}
}

func NewPermissiveFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocal: true,
		MaxLength:  2048,
	}
}

// ValidateAndNormalize validates a feed URL and returns the normalized
// form. A missing scheme defaults to https.
func (v *FeedURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'`") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a hostname")
	}

	if !v.AllowLocal {
		if err := checkPublicHost(parsed.Host); err != nil {
			return "", err
		}
	}

	return parsed.String(), nil
}

func checkPublicHost(host string) error {
	hostname := host
	if strings.Contains(host, ":") {
		var err error
		hostname, _, err = net.SplitHostPort(host)
		if err != nil {
			return fmt.Errorf("invalid host format: %w", err)
		}
	}

	lower := strings.ToLower(hostname)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") || lower == "127.0.0.1" || lower == "::1" {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("non-public IP addresses are not permitted")
		}
	}

	return nil
}
