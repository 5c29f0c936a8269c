package notify

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifeed/internal/storage"
)

func builderFeed() *storage.Feed {
	return &storage.Feed{URL: "http://example.com/feed.xml", Name: "Example"}
}

func builderPost() *storage.Post {
	return &storage.Post{
		ID:         "p1",
		FeedURL:    "http://example.com/feed.xml",
		Title:      "A Post",
		Link:       "http://example.com/p1",
		Published:  time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Summary:    "the summary",
		Thumbnail:  "http://example.com/thumb.jpg",
		AuthorName: "Alex",
		AuthorLink: "http://example.com/alex",
	}
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{"discord", "ntfy", "slack", "webhook"}, Kinds())
}

func TestBuilderFor_Unknown(t *testing.T) {
	_, err := builderFor("carrier-pigeon")
	assert.Error(t, err)
}

func TestGenericBuilder(t *testing.T) {
	req, err := genericBuilder{}.Build(builderFeed(), builderPost())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))

	var payload struct {
		Text   string `json:"text"`
		Embeds []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &payload))

	assert.Equal(t, "A Post", payload.Text)
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "A Post", payload.Embeds[0].Title)
	assert.Equal(t, "http://example.com/p1", payload.Embeds[0].URL)
	assert.Equal(t, "the summary", payload.Embeds[0].Description)
}

func TestDiscordBuilder(t *testing.T) {
	req, err := discordBuilder{}.Build(builderFeed(), builderPost())
	require.NoError(t, err)

	var payload struct {
		Content string         `json:"content"`
		Embeds  []discordEmbed `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &payload))

	assert.Equal(t, "New post from Example!", payload.Content)
	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "A Post", embed.Title)
	assert.Equal(t, "http://example.com/p1", embed.URL)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "http://example.com/thumb.jpg", embed.Thumbnail.URL)
	require.NotNil(t, embed.Author)
	assert.Equal(t, "Alex", embed.Author.Name)
	assert.Equal(t, "2025-03-14T09:30:00Z", embed.Timestamp)
}

func TestDiscordBuilder_OmitsEmptyBlocks(t *testing.T) {
	post := builderPost()
	post.Thumbnail = ""
	post.AuthorName = ""
	post.Published = time.Time{}

	req, err := discordBuilder{}.Build(builderFeed(), post)
	require.NoError(t, err)

	var payload struct {
		Embeds []discordEmbed `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &payload))
	require.Len(t, payload.Embeds, 1)
	assert.Nil(t, payload.Embeds[0].Thumbnail)
	assert.Nil(t, payload.Embeds[0].Author)
	assert.Empty(t, payload.Embeds[0].Timestamp)
}

func TestSlackBuilder(t *testing.T) {
	req, err := slackBuilder{}.Build(builderFeed(), builderPost())
	require.NoError(t, err)

	var payload struct {
		Text   string           `json:"text"`
		Blocks []map[string]any `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &payload))

	assert.Equal(t, "New post from Example: A Post", payload.Text)
	require.Len(t, payload.Blocks, 4, "intro, divider, article, context")
	assert.Equal(t, "divider", payload.Blocks[1]["type"])
	assert.Contains(t, payload.Blocks[2]["text"].(map[string]any)["text"], "http://example.com/p1")
	assert.NotNil(t, payload.Blocks[2]["accessory"])

	elements := payload.Blocks[3]["elements"].([]any)
	require.Len(t, elements, 1)
	assert.Equal(t, "By Alex - March 14 2025", elements[0].(map[string]any)["text"])
}

func TestNtfyBuilder(t *testing.T) {
	req, err := ntfyBuilder{}.Build(builderFeed(), builderPost())
	require.NoError(t, err)

	assert.Equal(t, "Example - A Post", req.Headers.Get("Title"))
	assert.Equal(t, "http://example.com/p1", req.Headers.Get("Click"))
	assert.Contains(t, req.Headers.Get("Actions"), "Go to post")
	assert.Equal(t, "the summary", string(req.Body))
}
