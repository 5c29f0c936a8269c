package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a feed, channel, or notification",
}

var deleteFeedCmd = &cobra.Command{
	Use:   "feed NAME",
	Short: "Stop watching a feed (removes its notifications too)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fd, err := store.GetFeedByName(args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteFeed(fd.URL); err != nil {
			return fmt.Errorf("failed to delete feed: %w", err)
		}
		fmt.Printf("Deleted %s!\n", fd.Name)
		return nil
	},
}

var deleteChannelCmd = &cobra.Command{
	Use:   "channel NAME",
	Short: "Remove a channel (removes its notifications too)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteChannel(args[0]); err != nil {
			return fmt.Errorf("failed to delete channel: %w", err)
		}
		fmt.Printf("Deleted %s!\n", args[0])
		return nil
	},
}

var deleteNotificationCmd = &cobra.Command{
	Use:   "notification FEED CHANNEL",
	Short: "Stop notifying a channel about a feed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fd, err := store.GetFeedByName(args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteSubscription(fd.URL, args[1]); err != nil {
			return fmt.Errorf("failed to delete notification: %w", err)
		}
		fmt.Printf("Deleted notification for %s on %s!\n", args[0], args[1])
		return nil
	},
}

func init() {
	deleteCmd.AddCommand(deleteFeedCmd, deleteChannelCmd, deleteNotificationCmd)
}
