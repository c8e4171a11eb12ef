package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run one prediction batch and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			candidates, _ := cmd.Flags().GetInt("candidates")
			refresh, _ := cmd.Flags().GetBool("refresh")
			asJSON, _ := cmd.Flags().GetBool("json")

			ctx := context.Background()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if candidates > 0 {
				a.runner.CandidateLimit = candidates
			}
			if refresh {
				if _, err := a.collector.RefreshQuotes(ctx); err != nil {
					return err
				}
			}

			b, err := a.runner.Run(ctx)
			if err != nil {
				return err
			}
			if err := a.recorder.RecordBatch(ctx, b); err != nil {
				log.Warn().Err(err).Msg("record batch")
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			renderBatch(os.Stdout, b)
			return nil
		},
	}
	cmd.Flags().Int("candidates", 0, "Override prediction.candidates")
	cmd.Flags().Bool("refresh", false, "Refresh live quotes before predicting")
	cmd.Flags().Bool("json", false, "Print the batch as JSON")
	return cmd
}

// renderBatch prints predictions as a table followed by the omitted symbols.
func renderBatch(w io.Writer, b *model.Batch) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Symbol", "Current", "Predicted", "Trend", "Confidence", "Factors"})
	table.SetAutoWrapText(false)
	for _, p := range b.Predictions {
		table.Append([]string{
			p.Symbol,
			fmt.Sprintf("%.2f", p.CurrentPrice),
			fmt.Sprintf("%.2f", p.PredictedPrice),
			string(p.Trend),
			fmt.Sprintf("%d%%", p.Confidence),
			strings.Join(strategy.Displayed(p.Factors), "; "),
		})
	}
	table.Render()

	for _, it := range b.Omitted() {
		fmt.Fprintf(w, "omitted %s: %s (%s)\n", it.Symbol, it.Outcome, it.Reason)
	}
}
