package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"notifeed/internal/notify"
	"notifeed/internal/storage"
	"notifeed/internal/validation"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a feed, channel, or notification",
}

var (
	addAllowLocal     bool
	addChannelKind    string
	addChannelToken   string
	addNotifyOnUpdate bool
)

var addFeedCmd = &cobra.Command{
	Use:   "feed NAME URL",
	Short: "Watch a new feed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, rawURL := args[0], args[1]

		validator := validation.NewFeedURLValidator()
		if addAllowLocal {
			validator = validation.NewPermissiveFeedURLValidator()
		}
		url, err := validator.ValidateAndNormalize(rawURL)
		if err != nil {
			return fmt.Errorf("invalid feed URL: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveFeed(&storage.Feed{URL: url, Name: name}); err != nil {
			return fmt.Errorf("failed to add feed: %w", err)
		}
		fmt.Printf("Added %s!\n", name)
		return nil
	},
}

var addChannelCmd = &cobra.Command{
	Use:   "channel NAME ENDPOINT",
	Short: "Configure a new notification channel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, endpoint := args[0], args[1]

		kind := strings.ToLower(addChannelKind)
		known := false
		for _, k := range notify.Kinds() {
			if k == kind {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown channel kind %q (supported: %s)", addChannelKind, strings.Join(notify.Kinds(), ", "))
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		channel := &storage.Channel{
			Name:     name,
			Kind:     kind,
			Endpoint: endpoint,
			Token:    addChannelToken,
		}
		if err := store.SaveChannel(channel); err != nil {
			return fmt.Errorf("failed to add channel: %w", err)
		}
		fmt.Printf("Added %s!\n", name)
		return nil
	},
}

var addNotificationCmd = &cobra.Command{
	Use:   "notification FEED CHANNEL",
	Short: "Send notifications for a feed to a channel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		feedName, channelName := args[0], args[1]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fd, err := store.GetFeedByName(feedName)
		if err != nil {
			return err
		}

		sub := &storage.Subscription{
			FeedURL:        fd.URL,
			Channel:        channelName,
			NotifyOnUpdate: addNotifyOnUpdate,
		}
		if err := store.AddSubscription(sub); err != nil {
			return fmt.Errorf("failed to add notification: %w", err)
		}
		fmt.Printf("Added notification for new posts to %s!\n", feedName)
		return nil
	},
}

func init() {
	addFeedCmd.Flags().BoolVar(&addAllowLocal, "allow-local", false, "permit localhost and private-network feed URLs")

	addChannelCmd.Flags().StringVarP(&addChannelKind, "kind", "k", "", "channel kind ("+strings.Join(notify.Kinds(), ", ")+")")
	addChannelCmd.Flags().StringVarP(&addChannelToken, "token", "a", "", "bearer token sent with every delivery")
	_ = addChannelCmd.MarkFlagRequired("kind")

	addNotificationCmd.Flags().BoolVar(&addNotifyOnUpdate, "on-update", false, "also notify when an already-seen post is edited")

	addCmd.AddCommand(addFeedCmd, addChannelCmd, addNotificationCmd)
}
