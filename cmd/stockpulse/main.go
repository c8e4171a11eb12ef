package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockPulse/internal/config"
	"StockPulse/internal/logging"
)

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// loadConfig reads and validates the config, then configures the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func main() {
	root := &cobra.Command{
		Use:           "stockpulse",
		Short:         "Technical-analysis stock predictions for the NSE dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().String("config", "", "Path to config.yaml (default $CONFIG_PATH or configs/config.yaml)")

	root.AddCommand(newServeCmd(), newPredictCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("stockpulse failed")
	}
}
