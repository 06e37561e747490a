package reporting

import (
	"fmt"
	"strings"
)

// RenderMembersCSV renders the per-member summary table as CSV.
func RenderMembersCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("index,strategy,initial_value_usd,final_equity_usd,final_pnl_usd,")
	sb.WriteString("roi_percentage,apy_percentage,max_drawdown_usd,steps_count,liquidated,error\n")

	for _, m := range r.Members {
		sb.WriteString(fmt.Sprintf("%d,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%t,%s\n",
			m.Index,
			m.Strategy,
			m.InitialValueUSD,
			m.FinalEquityUSD,
			m.FinalPnlUSD,
			m.ROIPercentage,
			m.APYPercentage,
			m.MaxDrawdownUSD,
			m.StepsCount,
			m.Liquidated,
			m.Error,
		))
	}

	return sb.String()
}

// RenderEquityCSV renders the combined equity curve as CSV.
func RenderEquityCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("timestep,equity_usd,pnl_usd\n")
	for _, s := range r.CombinedSteps {
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f\n", s.Timestep, s.EquityUSD, s.PnlUSD))
	}

	return sb.String()
}
