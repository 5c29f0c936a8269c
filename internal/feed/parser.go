package feed

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"

	"notifeed/internal/storage"
)

// Parser turns a raw feed body into canonical posts. Atom is tried first
// and RSS is the fallback, mirroring how remote feeds advertise themselves
// in the wild (badly).
type Parser struct {
	atom *atom.Parser
	rss  *rss.Parser
}

func NewParser() *Parser {
	return &Parser{
		atom: &atom.Parser{},
		rss:  &rss.Parser{},
	}
}

// Parse returns the feed's posts in native order, newest first by feed
// convention. A body neither parser accepts yields a ParseError.
func (p *Parser) Parse(body []byte, feedURL string) ([]*storage.Post, error) {
	atomFeed, atomErr := p.atom.Parse(bytes.NewReader(body))
	if atomErr == nil {
		return p.normalizeAll(entriesOf(atomFeed), feedURL)
	}

	rssFeed, rssErr := p.rss.Parse(bytes.NewReader(body))
	if rssErr == nil {
		return p.normalizeAll(itemsOf(rssFeed), feedURL)
	}

	return nil, &ParseError{URL: feedURL, AtomErr: atomErr, RSSErr: rssErr}
}

func entriesOf(f *atom.Feed) []any {
	raw := make([]any, 0, len(f.Entries))
	for _, entry := range f.Entries {
		raw = append(raw, entry)
	}
	return raw
}

func itemsOf(f *rss.Feed) []any {
	raw := make([]any, 0, len(f.Items))
	for _, item := range f.Items {
		raw = append(raw, item)
	}
	return raw
}

func (p *Parser) normalizeAll(entries []any, feedURL string) ([]*storage.Post, error) {
	posts := make([]*storage.Post, 0, len(entries))
	for _, entry := range entries {
		post, err := Normalize(entry, feedURL)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Normalize converts a format-specific entry into the canonical Post. Each
// supported format has an explicit conversion; anything else is an
// UnsupportedEntryError.
func Normalize(entry any, feedURL string) (*storage.Post, error) {
	switch e := entry.(type) {
	case *atom.Entry:
		return postFromAtom(e, feedURL), nil
	case *rss.Item:
		return postFromRSS(e, feedURL), nil
	default:
		return nil, &UnsupportedEntryError{Entry: entry}
	}
}

// postFromAtom maps an Atom entry. Atom IDs are permalinks by convention,
// so the entry ID doubles as the post link; the updated timestamp plays
// the role of RSS's publication date.
func postFromAtom(entry *atom.Entry, feedURL string) *storage.Post {
	post := &storage.Post{
		ID:      entry.ID,
		FeedURL: feedURL,
		Title:   entry.Title,
		Link:    entry.ID,
	}

	if entry.UpdatedParsed != nil {
		post.Published = *entry.UpdatedParsed
	}

	content := entry.Summary
	if entry.Content != nil && entry.Content.Value != "" {
		content = entry.Content.Value
	}

	summary := entry.Summary
	if summary == "" {
		summary = content
	}

	post.Summary = Shorten(Condense(StripHTML(summary)), summaryWidth)
	post.ContentHash = ContentHash(Condense(StripHTML(content)))

	for _, link := range entry.Links {
		if link != nil && strings.Contains(link.Type, "image") {
			post.Thumbnail = link.Href
			break
		}
	}

	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		post.AuthorName = entry.Authors[0].Name
		post.AuthorLink = entry.Authors[0].URI
	}

	return post
}

// postFromRSS maps an RSS item. The guid is the stable identifier, with
// the permalink standing in when a feed omits guids. RSS has no separate
// summary field, so the description serves as both body and summary.
func postFromRSS(item *rss.Item, feedURL string) *storage.Post {
	post := &storage.Post{
		FeedURL: feedURL,
		Title:   item.Title,
		Link:    item.Link,
	}

	post.ID = item.Link
	if item.GUID != nil && item.GUID.Value != "" {
		post.ID = item.GUID.Value
	}

	if item.PubDateParsed != nil {
		post.Published = *item.PubDateParsed
	}

	normalized := Condense(StripHTML(item.Description))
	post.Summary = Shorten(normalized, summaryWidth)
	post.ContentHash = ContentHash(normalized)

	if item.Enclosure != nil && strings.Contains(item.Enclosure.Type, "image") {
		post.Thumbnail = item.Enclosure.URL
	}

	post.AuthorName = item.Author

	return post
}
