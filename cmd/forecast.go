package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// forecastCmd predicts future metric values from trained models.
var forecastCmd = &cobra.Command{
	Use:   "forecast [owner/name]",
	Short: "Forecast key metrics for a subject.",
	Long: `Predict future values for the key delivery metrics from the models
trained during past refreshes.

Each forecast carries a confidence band and a trend label. Metrics without a
trained model are skipped with a warning; run 'devpulse refresh' a few times
to accumulate the history the trainer needs.

Examples:
  # Two-week forecast for a repository
  devpulse forecast octocat/hello-world

  # Month-long forecast for a developer
  devpulse forecast --scope tracked --developer octocat --horizon 30`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		subject := cfg.RefreshTask().Subject

		var forecasts []schema.Forecast
		for _, path := range schema.KeyForecastMetrics {
			fc, err := engine.Forecast(subject, path, cfg.HorizonDays)
			if err != nil {
				contract.LogWarn("forecast "+path, err)
				continue
			}
			forecasts = append(forecasts, *fc)
		}

		if err := writer.WriteForecasts(forecasts, cfg); err != nil {
			contract.LogFatal("Cannot write forecasts", err)
		}
	},
}
