package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Portfolio Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Final Equity (USD) | %.2f |\n", r.CombinedSummary.FinalEquityUSD))
	sb.WriteString(fmt.Sprintf("| Final PnL (USD) | %.2f |\n", r.CombinedSummary.FinalPnlUSD))
	sb.WriteString(fmt.Sprintf("| ROI | %.4f%% |\n", r.CombinedSummary.ROIPercentage))
	sb.WriteString(fmt.Sprintf("| APY | %.4f%% |\n", r.CombinedSummary.APYPercentage))
	sb.WriteString(fmt.Sprintf("| Max Drawdown (USD) | %.2f |\n", r.CombinedSummary.MaxDrawdownUSD))
	sb.WriteString(fmt.Sprintf("| Steps | %d |\n", r.CombinedSummary.StepsCount))
	sb.WriteString("\n")

	sb.WriteString("## Strategy Members\n\n")
	if len(r.Members) > 0 {
		sb.WriteString("| # | Strategy | Initial | Final Equity | PnL | ROI% | APY% | MaxDD | Steps | Liquidated |\n")
		sb.WriteString("|---|----------|---------|--------------|-----|------|------|-------|-------|------------|\n")
		for _, m := range r.Members {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.2f | %.4f | %.4f | %.2f | %d | %t |\n",
				m.Index, m.Strategy, m.InitialValueUSD, m.FinalEquityUSD, m.FinalPnlUSD,
				m.ROIPercentage, m.APYPercentage, m.MaxDrawdownUSD, m.StepsCount, m.Liquidated))
		}
	} else {
		sb.WriteString("No members.\n")
	}
	sb.WriteString("\n")

	if len(r.Errors) > 0 {
		sb.WriteString("## Member Errors\n\n")
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
