package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

func trendIcon(t model.Trend) string {
	switch t {
	case model.TrendBullish:
		return "📈"
	case model.TrendBearish:
		return "📉"
	default:
		return "➖"
	}
}

// FormatPredictionDigest formats a batch into a Telegram message. Only the
// first three factors of each prediction are shown.
func FormatPredictionDigest(b *model.Batch) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🔮 <b>StockPulse predictions</b> | %s\n", b.FinishedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Timeframe: %s\n\n", model.Timeframe))

	if len(b.Predictions) == 0 {
		sb.WriteString("No predictions this run.\n")
	}
	for _, p := range b.Predictions {
		change := 0.0
		if p.CurrentPrice > 0 {
			change = (p.PredictedPrice - p.CurrentPrice) / p.CurrentPrice * 100
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s</b> %.2f → %.2f (%+.2f%%) | %s, %d%% confidence\n",
			trendIcon(p.Trend), html.EscapeString(p.Symbol), p.CurrentPrice, p.PredictedPrice,
			change, p.Trend, p.Confidence))
		for _, f := range strategy.Displayed(p.Factors) {
			sb.WriteString("   • " + html.EscapeString(f) + "\n")
		}
	}

	if omitted := b.Omitted(); len(omitted) > 0 {
		names := make([]string, 0, len(omitted))
		for _, it := range omitted {
			sym := it.Symbol
			if sym == "" {
				sym = "?"
			}
			names = append(names, fmt.Sprintf("%s (%s)", html.EscapeString(sym), it.Outcome))
		}
		sb.WriteString(fmt.Sprintf("\n⚠️ Omitted: %s\n", strings.Join(names, ", ")))
	}
	return sb.String()
}

// FormatMovers formats a list of quotes under a title.
func FormatMovers(title string, quotes []model.Quote) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 <b>%s</b>\n\n", html.EscapeString(title)))
	if len(quotes) == 0 {
		sb.WriteString("No quotes yet.\n")
		return sb.String()
	}
	for _, q := range quotes {
		sb.WriteString(fmt.Sprintf("%s: %.2f (%+.2f%%) vol %d\n",
			html.EscapeString(q.Symbol), q.CurrentPrice, q.PercentageChange, q.Volume))
	}
	return sb.String()
}

// FormatHelp lists the supported chat commands.
func FormatHelp() string {
	return "Commands:\n" +
		"/predictions - latest prediction digest\n" +
		"/refresh - refresh quotes and rerun predictions\n" +
		"/movers - top gainers and losers"
}
