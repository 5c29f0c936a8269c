package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"notifeed/internal/feed"
	"notifeed/internal/storage"
)

// Delivery is the outcome of sending one update to one channel.
type Delivery struct {
	Channel string
	Status  int
	Err     error
}

func (d Delivery) OK() bool {
	return d.Err == nil && d.Status >= 200 && d.Status < 300
}

// Dispatcher fans detected updates out to subscribed channels.
//
// Posts of one feed are dispatched strictly oldest first, and one post's
// full subscriber fan-out (including retries) completes before the next
// post begins, so recipients see posts arrive in chronological order.
// Deliveries to different channels for the same post run concurrently with
// no ordering between them.
type Dispatcher struct {
	store  *storage.Store
	sender *Sender
}

func NewDispatcher(store *storage.Store, client *http.Client) *Dispatcher {
	return &Dispatcher{
		store:  store,
		sender: NewSender(client),
	}
}

// Dispatch processes updates for one feed in order. It returns how many
// updates were fully processed.
//
// The state update for each post is committed before its notifications are
// sent: a crash after commit loses at most one notification instead of
// duplicating it on the next poll. A state store failure aborts the
// remaining updates for this feed so the next cycle re-detects them.
func (d *Dispatcher) Dispatch(ctx context.Context, fd *storage.Feed, updates []feed.Update) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	subs, err := d.store.ListSubscriptions(fd.URL)
	if err != nil {
		return 0, fmt.Errorf("state store: listing subscriptions for %s: %w", fd.Name, err)
	}
	retryLimit, err := d.store.RetryLimit()
	if err != nil {
		return 0, fmt.Errorf("state store: reading retry limit: %w", err)
	}

	processed := 0
	for _, update := range updates {
		if err := d.commit(fd, update); err != nil {
			return processed, fmt.Errorf("state store: committing %s for %s: %w", update.Event, fd.Name, err)
		}

		log.Info().
			Str("feed", fd.Name).
			Str("title", update.Post.Title).
			Stringer("event", update.Event).
			Msg("feed update detected")

		deliveries := d.fanOut(ctx, fd, update, subs, retryLimit)
		for _, delivery := range deliveries {
			evt := log.Debug()
			if !delivery.OK() {
				evt = log.Error().Err(delivery.Err)
			}
			evt.
				Str("feed", fd.Name).
				Str("channel", delivery.Channel).
				Int("status", delivery.Status).
				Msg("notification delivery finished")
		}
		processed++
	}

	return processed, nil
}

// commit applies the local state-update policy for one detected update.
func (d *Dispatcher) commit(fd *storage.Feed, update feed.Update) error {
	switch {
	case update.Event.Has(feed.EventFirstPost):
		return d.store.ReplaceLatestPost(update.Post)
	case update.Event.Has(feed.EventNew):
		// Durable "latest" tracking always points at the newest post;
		// updates arrive oldest first, so each commit supersedes the last.
		if err := d.store.DeleteLatestPost(fd.URL); err != nil {
			return err
		}
		return d.store.ReplaceLatestPost(update.Post)
	case update.Event.Has(feed.EventUpdated):
		return d.store.UpdateLatestPost(fd.URL, update.Post.Title, update.Post.Link, update.Post.ContentHash)
	default:
		return nil
	}
}

// fanOut delivers one update to every subscribed channel concurrently and
// waits for all deliveries, retries included, to settle.
func (d *Dispatcher) fanOut(ctx context.Context, fd *storage.Feed, update feed.Update, subs []*storage.Subscription, retryLimit int) []Delivery {
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		deliveries []Delivery
	)

	for _, sub := range subs {
		if update.Event.Has(feed.EventUpdated) && !sub.NotifyOnUpdate {
			continue
		}

		wg.Add(1)
		go func(sub *storage.Subscription) {
			defer wg.Done()

			delivery := d.deliver(ctx, fd, update.Post, sub, retryLimit)

			mu.Lock()
			deliveries = append(deliveries, delivery)
			mu.Unlock()
		}(sub)
	}

	wg.Wait()
	return deliveries
}

func (d *Dispatcher) deliver(ctx context.Context, fd *storage.Feed, post *storage.Post, sub *storage.Subscription, retryLimit int) Delivery {
	delivery := Delivery{Channel: sub.Channel}

	channel, err := d.store.GetChannel(sub.Channel)
	if err != nil {
		delivery.Err = err
		return delivery
	}

	builder, err := builderFor(channel.Kind)
	if err != nil {
		delivery.Err = err
		return delivery
	}

	req, err := builder.Build(fd, post)
	if err != nil {
		delivery.Err = fmt.Errorf("building payload: %w", err)
		return delivery
	}

	delivery.Status, delivery.Err = d.sender.Send(ctx, channel, req, retryLimit)
	return delivery
}
