package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minaret-labs/minaretd/internal/config"
	"github.com/minaret-labs/minaretd/internal/prayer"
)

// fetch is a one-shot debug aid: pull today's times from the configured
// source, normalize, and print.
func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and print today's schedule once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			adapter := newAdapter(cfg)
			raw, err := adapter.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			isRamadan := raw.Hijri != nil && raw.Hijri.Month == 9
			entries := prayer.Normalize(raw.Times, time.Now(), isRamadan, cfg.Toggles, cfg.Suhoor)

			if raw.Hijri != nil {
				fmt.Printf("%d %s %d AH\n", raw.Hijri.Day, raw.Hijri.MonthName, raw.Hijri.Year)
			}
			for _, e := range entries {
				state := " "
				if !e.Enabled {
					state = "(disabled)"
				}
				fmt.Printf("%-8s %s %s\n", e.Name, e.TimeString(), state)
			}
			return nil
		},
	}
}
