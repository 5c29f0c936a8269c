package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Test RSS Feed</title>
		<link>http://example.com</link>
		<description>Test Description</description>
		<item>
			<title>Second Post</title>
			<link>http://example.com/post2</link>
			<description>&lt;p&gt;The   second post&lt;/p&gt;</description>
			<guid isPermaLink="false">post-2</guid>
			<author>jo@example.com</author>
			<pubDate>Thu, 02 Jan 2025 12:00:00 GMT</pubDate>
			<enclosure url="http://example.com/thumb2.jpg" length="1024" type="image/jpeg"/>
		</item>
		<item>
			<title>First Post</title>
			<link>http://example.com/post1</link>
			<description>The first post</description>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
		</item>
	</channel>
</rss>`

const atomSample = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<link href="http://example.org/"/>
	<updated>2025-01-02T12:00:00Z</updated>
	<entry>
		<title>Atom Entry</title>
		<id>http://example.org/entries/1</id>
		<updated>2025-01-02T12:00:00Z</updated>
		<summary>Entry summary</summary>
		<content type="html">&lt;p&gt;Entry content&lt;/p&gt;</content>
		<link rel="enclosure" type="image/png" href="http://example.org/thumb.png"/>
		<author>
			<name>Alex</name>
			<uri>http://example.org/alex</uri>
		</author>
	</entry>
</feed>`

func TestParser_Parse_RSS(t *testing.T) {
	parser := NewParser()

	posts, err := parser.Parse([]byte(rssSample), "http://example.com/feed.xml")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	newest := posts[0]
	assert.Equal(t, "post-2", newest.ID, "guid is the stable identifier")
	assert.Equal(t, "http://example.com/post2", newest.Link)
	assert.Equal(t, "Second Post", newest.Title)
	assert.Equal(t, "http://example.com/feed.xml", newest.FeedURL)
	assert.Equal(t, "The second post", newest.Summary, "summary is stripped and condensed")
	assert.Equal(t, ContentHash("The second post"), newest.ContentHash)
	assert.Equal(t, "http://example.com/thumb2.jpg", newest.Thumbnail)
	assert.Equal(t, "jo@example.com", newest.AuthorName)
	assert.Equal(t, time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC), newest.Published.UTC())

	oldest := posts[1]
	assert.Equal(t, "http://example.com/post1", oldest.ID, "link stands in for a missing guid")
	assert.Empty(t, oldest.Thumbnail)
}

func TestParser_Parse_Atom(t *testing.T) {
	parser := NewParser()

	posts, err := parser.Parse([]byte(atomSample), "http://example.org/feed")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "http://example.org/entries/1", post.ID)
	assert.Equal(t, post.ID, post.Link, "atom id doubles as permalink")
	assert.Equal(t, "Atom Entry", post.Title)
	assert.Equal(t, "Entry summary", post.Summary, "explicit summary preferred over content")
	assert.Equal(t, ContentHash("Entry content"), post.ContentHash, "hash covers the full content")
	assert.Equal(t, "http://example.org/thumb.png", post.Thumbnail)
	assert.Equal(t, "Alex", post.AuthorName)
	assert.Equal(t, "http://example.org/alex", post.AuthorLink)
	assert.Equal(t, time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC), post.Published.UTC())
}

func TestParser_Parse_AtomSummaryFallsBackToContent(t *testing.T) {
	const body = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Fallback Feed</title>
	<updated>2025-01-01T00:00:00Z</updated>
	<entry>
		<title>No Summary</title>
		<id>http://example.org/entries/2</id>
		<updated>2025-01-01T00:00:00Z</updated>
		<content type="html">&lt;p&gt;Only content&lt;/p&gt;</content>
	</entry>
</feed>`

	posts, err := NewParser().Parse([]byte(body), "http://example.org/feed")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Only content", posts[0].Summary)
}

func TestParser_Parse_NeitherFormat(t *testing.T) {
	parser := NewParser()

	_, err := parser.Parse([]byte("certainly not a feed"), "http://example.com/broken")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "http://example.com/broken", parseErr.URL)
}

func TestNormalize_UnsupportedEntry(t *testing.T) {
	_, err := Normalize(struct{}{}, "http://example.com/feed.xml")
	require.Error(t, err)

	var unsupported *UnsupportedEntryError
	assert.True(t, errors.As(err, &unsupported))
}
