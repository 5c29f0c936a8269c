package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured feeds, channels, notifications, or settings",
}

var listFeedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "List watched feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		feeds, err := store.GetAllFeeds()
		if err != nil {
			return err
		}
		if len(feeds) == 0 {
			fmt.Println("No feeds found.")
			return nil
		}

		fmt.Println("Currently watching:")
		for _, fd := range feeds {
			fmt.Printf("  %s (%s)\n", fd.Name, fd.URL)
		}
		return nil
	},
}

var listChannelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List notification channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		channels, err := store.GetAllChannels()
		if err != nil {
			return err
		}
		if len(channels) == 0 {
			fmt.Println("No channels configured.")
			return nil
		}

		fmt.Println("Available notification channels:")
		for _, channel := range channels {
			fmt.Printf("  %s (%s, %s)\n", channel.Name, channel.Kind, channel.Endpoint)
		}
		return nil
	},
}

var listNotificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List feed-to-channel notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		subs, err := store.GetAllSubscriptions()
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			fmt.Println("No notifications configured.")
			return nil
		}

		names := make(map[string]string)
		feeds, err := store.GetAllFeeds()
		if err != nil {
			return err
		}
		for _, fd := range feeds {
			names[fd.URL] = fd.Name
		}

		fmt.Println("Configured notifications:")
		for _, sub := range subs {
			name := names[sub.FeedURL]
			if name == "" {
				name = sub.FeedURL
			}
			line := fmt.Sprintf("  New posts to %s --> %s", name, sub.Channel)
			if sub.NotifyOnUpdate {
				line += " (including updates)"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var listSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "List runtime settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		settings, err := store.GetAllSettings()
		if err != nil {
			return err
		}

		names := make([]string, 0, len(settings))
		for name := range settings {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("  %s = %s\n", name, settings[name])
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listFeedsCmd, listChannelsCmd, listNotificationsCmd, listSettingsCmd)
}
