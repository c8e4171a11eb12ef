package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default companies, daily history, quotes and indices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")

			ctx := context.Background()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			companies, err := a.collector.SeedCompanies(ctx)
			if err != nil {
				return err
			}
			bars, err := a.collector.Backfill(ctx, days)
			if err != nil {
				return err
			}
			quotes, err := a.collector.RefreshQuotes(ctx)
			if err != nil {
				return err
			}
			if err := a.collector.RefreshIndices(ctx); err != nil {
				return err
			}
			log.Info().Int("companies", companies).Int("bars", bars).Int("quotes", quotes).Msg("seed complete")
			return nil
		},
	}
	cmd.Flags().Int("days", 90, "Days of daily history to load")
	return cmd
}
