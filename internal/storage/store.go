package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	feedsBucket         = []byte("feeds")
	postsBucket         = []byte("posts")
	channelsBucket      = []byte("channels")
	subscriptionsBucket = []byte("subscriptions")
	settingsBucket      = []byte("settings")
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Settings the poller reads every cycle, seeded on first open.
const (
	SettingPollInterval = "poll_interval"
	SettingRetryLimit   = "retry_limit"

	DefaultPollInterval = 900 // seconds
	DefaultRetryLimit   = 5
)

var defaultSettings = map[string]string{
	SettingPollInterval: strconv.Itoa(DefaultPollInterval),
	SettingRetryLimit:   strconv.Itoa(DefaultRetryLimit),
}

// subscription keys are feed URL and channel name joined by a separator
// that cannot appear in either.
const subKeySep = "\x00"

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{feedsBucket, postsBucket, channelsBucket, subscriptionsBucket, settingsBucket}
		for _, bucket := range buckets {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}

		b := tx.Bucket(settingsBucket)
		for name, value := range defaultSettings {
			if b.Get([]byte(name)) == nil {
				if putErr := b.Put([]byte(name), []byte(value)); putErr != nil {
					return putErr
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveFeed(feed *Feed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(feed)
		if err != nil {
			return err
		}
		return tx.Bucket(feedsBucket).Put([]byte(feed.URL), data)
	})
}

func (s *Store) GetFeed(url string) (*Feed, error) {
	var feed Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(feedsBucket).Get([]byte(url))
		if data == nil {
			return fmt.Errorf("feed %q: %w", url, ErrNotFound)
		}
		return json.Unmarshal(data, &feed)
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// GetFeedByName resolves a feed by its display name, used by CLI verbs
// that take the friendlier identifier.
func (s *Store) GetFeedByName(name string) (*Feed, error) {
	feeds, err := s.GetAllFeeds()
	if err != nil {
		return nil, err
	}
	for _, feed := range feeds {
		if feed.Name == name {
			return feed, nil
		}
	}
	return nil, fmt.Errorf("feed %q: %w", name, ErrNotFound)
}

func (s *Store) GetAllFeeds() ([]*Feed, error) {
	var feeds []*Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(feedsBucket).ForEach(func(_ []byte, v []byte) error {
			var feed Feed
			if err := json.Unmarshal(v, &feed); err != nil {
				return err
			}
			feeds = append(feeds, &feed)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(feeds, func(i, j int) bool {
		return strings.ToLower(feeds[i].Name) < strings.ToLower(feeds[j].Name)
	})
	return feeds, nil
}

// DeleteFeed removes a feed along with its stored post and every
// subscription that references it.
func (s *Store) DeleteFeed(url string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(feedsBucket).Delete([]byte(url)); err != nil {
			return err
		}
		if err := tx.Bucket(postsBucket).Delete([]byte(url)); err != nil {
			return err
		}

		prefix := []byte(url + subKeySep)
		c := tx.Bucket(subscriptionsBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

// LatestPost returns the single stored post for a feed, or nil if the
// feed has never been polled.
func (s *Store) LatestPost(feedURL string) (*Post, error) {
	var post *Post
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(postsBucket).Get([]byte(feedURL))
		if data == nil {
			return nil
		}
		post = &Post{}
		return json.Unmarshal(data, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ReplaceLatestPost overwrites the feed's stored post row in place.
func (s *Store) ReplaceLatestPost(post *Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(post)
		if err != nil {
			return err
		}
		return tx.Bucket(postsBucket).Put([]byte(post.FeedURL), data)
	})
}

// UpdateLatestPost rewrites the mutable fields of the stored post after an
// in-place edit was detected. The post identifier never changes here.
func (s *Store) UpdateLatestPost(feedURL, title, link, contentHash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(postsBucket)
		data := b.Get([]byte(feedURL))
		if data == nil {
			return fmt.Errorf("post for feed %q: %w", feedURL, ErrNotFound)
		}

		var post Post
		if err := json.Unmarshal(data, &post); err != nil {
			return err
		}
		post.Title = title
		post.Link = link
		post.ContentHash = contentHash

		data, err := json.Marshal(&post)
		if err != nil {
			return err
		}
		return b.Put([]byte(feedURL), data)
	})
}

func (s *Store) DeleteLatestPost(feedURL string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).Delete([]byte(feedURL))
	})
}

func (s *Store) SaveChannel(channel *Channel) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(channel)
		if err != nil {
			return err
		}
		return tx.Bucket(channelsBucket).Put([]byte(channel.Name), data)
	})
}

func (s *Store) GetChannel(name string) (*Channel, error) {
	var channel Channel
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(channelsBucket).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("channel %q: %w", name, ErrNotFound)
		}
		return json.Unmarshal(data, &channel)
	})
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (s *Store) GetAllChannels() ([]*Channel, error) {
	var channels []*Channel
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(channelsBucket).ForEach(func(_ []byte, v []byte) error {
			var channel Channel
			if err := json.Unmarshal(v, &channel); err != nil {
				return err
			}
			channels = append(channels, &channel)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return channels, nil
}

// DeleteChannel removes a channel and every subscription pointing at it.
func (s *Store) DeleteChannel(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(channelsBucket).Delete([]byte(name)); err != nil {
			return err
		}

		c := tx.Bucket(subscriptionsBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var sub Subscription
			if err := json.Unmarshal(v, &sub); err != nil {
				continue
			}
			if sub.Channel == name {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) AddSubscription(sub *Subscription) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(feedsBucket).Get([]byte(sub.FeedURL)) == nil {
			return fmt.Errorf("feed %q: %w", sub.FeedURL, ErrNotFound)
		}
		if tx.Bucket(channelsBucket).Get([]byte(sub.Channel)) == nil {
			return fmt.Errorf("channel %q: %w", sub.Channel, ErrNotFound)
		}

		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		key := []byte(sub.FeedURL + subKeySep + sub.Channel)
		return tx.Bucket(subscriptionsBucket).Put(key, data)
	})
}

// ListSubscriptions returns all subscriptions for one feed.
func (s *Store) ListSubscriptions(feedURL string) ([]*Subscription, error) {
	var subs []*Subscription
	err := s.db.View(func(tx *bolt.Tx) error {
		prefix := []byte(feedURL + subKeySep)
		c := tx.Bucket(subscriptionsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var sub Subscription
			if err := json.Unmarshal(v, &sub); err != nil {
				return err
			}
			subs = append(subs, &sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) GetAllSubscriptions() ([]*Subscription, error) {
	var subs []*Subscription
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(subscriptionsBucket).ForEach(func(_ []byte, v []byte) error {
			var sub Subscription
			if err := json.Unmarshal(v, &sub); err != nil {
				return err
			}
			subs = append(subs, &sub)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) DeleteSubscription(feedURL, channel string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := []byte(feedURL + subKeySep + channel)
		return tx.Bucket(subscriptionsBucket).Delete(key)
	})
}

// GetSetting returns a setting value, falling back to the documented
// default when the stored value is missing.
func (s *Store) GetSetting(name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(settingsBucket).Get([]byte(name))
		if data == nil {
			if fallback, ok := defaultSettings[name]; ok {
				value = fallback
				return nil
			}
			return fmt.Errorf("setting %q: %w", name, ErrNotFound)
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetSetting(name, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Put([]byte(name), []byte(value))
	})
}

func (s *Store) GetAllSettings() (map[string]string, error) {
	settings := make(map[string]string, len(defaultSettings))
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).ForEach(func(k, v []byte) error {
			settings[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// PollInterval reads the poll interval setting as a duration.
func (s *Store) PollInterval() (time.Duration, error) {
	value, err := s.GetSetting(SettingPollInterval)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid %s %q", SettingPollInterval, value)
	}
	return time.Duration(seconds) * time.Second, nil
}

// RetryLimit reads the delivery retry limit setting.
func (s *Store) RetryLimit() (int, error) {
	value, err := s.GetSetting(SettingRetryLimit)
	if err != nil {
		return 0, err
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid %s %q", SettingRetryLimit, value)
	}
	return limit, nil
}
