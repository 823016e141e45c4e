package cli

import (
	"fmt"
	"os"

	"lostaf-cli/internal/model"

	"github.com/spf13/cobra"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Portal-wide aggregates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show portal-wide counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			stats, err := app.client.Stats(cmd.Context())
			if err != nil {
				return authHint(err)
			}
			// Refresh the local snapshot so a TUI admin view opened right
			// after renders instantly.
			if cacheErr := app.store.SaveStatsCache(cmd.Context(), *stats); cacheErr != nil {
				app.logger.Warn().Err(cacheErr).Msg("cache admin stats")
			}
			return writeOut(cmd, app, stats)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "locations",
		Short: "Show active-item counts per location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			locs, err := app.client.Locations(cmd.Context())
			if err != nil {
				return authHint(err)
			}
			if cacheErr := app.store.SaveLocationsCache(cmd.Context(), locs); cacheErr != nil {
				app.logger.Warn().Err(cacheErr).Msg("cache locations summary")
			}
			return writeOut(cmd, app, locs)
		},
	})

	return cmd
}

func newQRCmd(app *App) *cobra.Command {
	var location, out string

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Save the poster QR image for a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if !model.ValidLocation(location) {
				return fmt.Errorf("--location must be one of %v", model.Locations)
			}
			b, err := app.client.QR(cmd.Context(), location)
			if err != nil {
				return authHint(err)
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Location the QR poster points at")
	cmd.Flags().StringVarP(&out, "out", "o", "qr.png", "Output file")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}
