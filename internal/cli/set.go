package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"notifeed/internal/storage"
)

var knownSettings = []string{storage.SettingPollInterval, storage.SettingRetryLimit}

var setCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Change a runtime setting (takes effect next poll cycle)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]

		known := false
		for _, s := range knownSettings {
			if s == name {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown setting %q (supported: %s)", name, strings.Join(knownSettings, ", "))
		}

		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", name)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetSetting(name, value); err != nil {
			return fmt.Errorf("failed to update setting: %w", err)
		}
		fmt.Printf("Set %s to %s.\n", name, value)
		return nil
	},
}
