package feed

import "notifeed/internal/storage"

// Update is one detected change, ready for dispatch.
type Update struct {
	Post  *storage.Post
	Event Event
}

// Detect compares a freshly fetched, newest-first post sequence against
// the feed's stored last-known post and returns the updates needing
// action, oldest first so dispatch preserves chronological reading order.
//
// When the stored post cannot be located in the fetched sequence (feed
// pruned or reordered, or first contact), only the single newest entry is
// reported. Deliberately under-notifying here avoids flooding subscribers
// with historical posts.
func Detect(fetched []*storage.Post, last *storage.Post) []Update {
	if len(fetched) == 0 {
		return nil
	}

	if last == nil {
		return []Update{{Post: fetched[0], Event: EventNew | EventFirstPost}}
	}

	boundary := -1
	for i, post := range fetched {
		if post.ID == last.ID {
			boundary = i
			break
		}
	}

	if boundary == -1 {
		return []Update{{Post: fetched[0], Event: EventNew}}
	}

	if boundary == 0 {
		// The stored post is still the newest; the only possible change
		// is an in-place edit.
		if fetched[0].ContentHash != last.ContentHash {
			return []Update{{Post: fetched[0], Event: EventUpdated}}
		}
		return nil
	}

	// Everything ahead of the boundary is new. The boundary post itself is
	// superseded, so its hash is not inspected this cycle.
	updates := make([]Update, 0, boundary)
	for i := boundary - 1; i >= 0; i-- {
		updates = append(updates, Update{Post: fetched[i], Event: EventNew})
	}
	return updates
}
