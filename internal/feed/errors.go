package feed

import "fmt"

// FetchError is a network-level failure reaching a feed. Callers isolate
// these per feed rather than aborting the poll cycle.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means a response body parsed as neither Atom nor RSS.
type ParseError struct {
	URL     string
	AtomErr error
	RSSErr  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: not atom (%v), not rss (%v)", e.URL, e.AtomErr, e.RSSErr)
}

// UnsupportedEntryError means a raw entry matched neither supported
// feed format.
type UnsupportedEntryError struct {
	Entry any
}

func (e *UnsupportedEntryError) Error() string {
	return fmt.Sprintf("unsupported entry type %T", e.Entry)
}
