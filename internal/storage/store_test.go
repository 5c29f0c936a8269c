package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testFeed() *Feed {
	return &Feed{URL: "http://example.com/feed.xml", Name: "Example"}
}

func testPost(id string) *Post {
	return &Post{
		ID:          id,
		FeedURL:     "http://example.com/feed.xml",
		Title:       "Title " + id,
		Link:        "http://example.com/" + id,
		Published:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Summary:     "a summary",
		ContentHash: "hash-" + id,
	}
}

func TestStore_SaveAndGetFeed(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveFeed(testFeed()))

	got, err := store.GetFeed("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, "Example", got.Name)

	byName, err := store.GetFeedByName("Example")
	require.NoError(t, err)
	assert.Equal(t, got.URL, byName.URL)
}

func TestStore_GetFeed_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetFeed("http://nope.example.com/feed.xml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetAllFeeds_SortedByName(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SaveFeed(&Feed{URL: "http://b.example.com", Name: "beta"}))
	require.NoError(t, store.SaveFeed(&Feed{URL: "http://a.example.com", Name: "Alpha"}))

	feeds, err := store.GetAllFeeds()
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, "Alpha", feeds[0].Name)
	assert.Equal(t, "beta", feeds[1].Name)
}

func TestStore_LatestPostLifecycle(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SaveFeed(testFeed()))

	// Never polled: no stored post, no error.
	post, err := store.LatestPost("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Nil(t, post)

	require.NoError(t, store.ReplaceLatestPost(testPost("p1")))

	post, err = store.LatestPost("http://example.com/feed.xml")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "p1", post.ID)

	// Replacing overwrites the single row in place.
	require.NoError(t, store.ReplaceLatestPost(testPost("p2")))
	post, err = store.LatestPost("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, "p2", post.ID)

	// In-place update touches title, link, and hash but never the ID.
	require.NoError(t, store.UpdateLatestPost("http://example.com/feed.xml", "New Title", "http://example.com/new", "hash-new"))
	post, err = store.LatestPost("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, "p2", post.ID)
	assert.Equal(t, "New Title", post.Title)
	assert.Equal(t, "http://example.com/new", post.Link)
	assert.Equal(t, "hash-new", post.ContentHash)

	require.NoError(t, store.DeleteLatestPost("http://example.com/feed.xml"))
	post, err = store.LatestPost("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestStore_UpdateLatestPost_Missing(t *testing.T) {
	store := setupTestStore(t)

	err := store.UpdateLatestPost("http://example.com/feed.xml", "t", "l", "h")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Channels(t *testing.T) {
	store := setupTestStore(t)

	channel := &Channel{Name: "chat", Kind: "discord", Endpoint: "https://hooks.example.com/x", Token: "secret"}
	require.NoError(t, store.SaveChannel(channel))

	got, err := store.GetChannel("chat")
	require.NoError(t, err)
	assert.Equal(t, "discord", got.Kind)
	assert.Equal(t, "secret", got.Token)

	_, err = store.GetChannel("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := store.GetAllChannels()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_Subscriptions(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SaveFeed(testFeed()))
	require.NoError(t, store.SaveChannel(&Channel{Name: "chat", Kind: "discord", Endpoint: "https://hooks.example.com/x"}))

	sub := &Subscription{FeedURL: "http://example.com/feed.xml", Channel: "chat", NotifyOnUpdate: true}
	require.NoError(t, store.AddSubscription(sub))

	subs, err := store.ListSubscriptions("http://example.com/feed.xml")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].NotifyOnUpdate)

	subs, err = store.ListSubscriptions("http://other.example.com/feed.xml")
	require.NoError(t, err)
	assert.Empty(t, subs)

	require.NoError(t, store.DeleteSubscription("http://example.com/feed.xml", "chat"))
	subs, err = store.ListSubscriptions("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestStore_AddSubscription_UnknownSides(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SaveFeed(testFeed()))

	err := store.AddSubscription(&Subscription{FeedURL: "http://example.com/feed.xml", Channel: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.AddSubscription(&Subscription{FeedURL: "http://ghost.example.com", Channel: "chat"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteFeed_Cascades(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SaveFeed(testFeed()))
	require.NoError(t, store.SaveChannel(&Channel{Name: "chat", Kind: "discord", Endpoint: "https://hooks.example.com/x"}))
	require.NoError(t, store.AddSubscription(&Subscription{FeedURL: "http://example.com/feed.xml", Channel: "chat"}))
	require.NoError(t, store.ReplaceLatestPost(testPost("p1")))

	require.NoError(t, store.DeleteFeed("http://example.com/feed.xml"))

	_, err := store.GetFeed("http://example.com/feed.xml")
	assert.ErrorIs(t, err, ErrNotFound)

	post, err := store.LatestPost("http://example.com/feed.xml")
	require.NoError(t, err)
	assert.Nil(t, post, "stored post is cascade-deleted")

	subs, err := store.GetAllSubscriptions()
	require.NoError(t, err)
	assert.Empty(t, subs, "subscriptions are cascade-deleted")
}

func TestStore_DeleteChannel_Cascades(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.SaveFeed(testFeed()))
	require.NoError(t, store.SaveChannel(&Channel{Name: "chat", Kind: "discord", Endpoint: "https://hooks.example.com/x"}))
	require.NoError(t, store.AddSubscription(&Subscription{FeedURL: "http://example.com/feed.xml", Channel: "chat"}))

	require.NoError(t, store.DeleteChannel("chat"))

	subs, err := store.GetAllSubscriptions()
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestStore_SettingsDefaults(t *testing.T) {
	store := setupTestStore(t)

	interval, err := store.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, 900*time.Second, interval)

	limit, err := store.RetryLimit()
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
}

func TestStore_SetSetting(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetSetting(SettingPollInterval, "60"))
	interval, err := store.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)

	require.NoError(t, store.SetSetting(SettingRetryLimit, "bogus"))
	_, err = store.RetryLimit()
	assert.Error(t, err)

	_, err = store.GetSetting("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}
