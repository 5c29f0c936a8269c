package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notifeed/internal/poller"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start polling feeds until interrupted",
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
		subs, err := store.GetAllSubscriptions()
		if err != nil {
			return err
		}
		interval, err := store.PollInterval()
		if err != nil {
			return err
		}

		fmt.Println("=========== Notifeed ===========")
		fmt.Printf(" * Feeds configured: %d\n", len(feeds))
		fmt.Printf(" * Notifications configured: %d\n", len(subs))
		fmt.Printf(" * Poll interval: %s\n", formatInterval(interval))
		fmt.Println("================================")
		fmt.Println()
		fmt.Println("Polling started!")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := poller.New(store, cfg).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func formatInterval(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return d.String()
}
