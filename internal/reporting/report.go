// Package reporting renders simulation and batch outcomes as CSV and
// Markdown artifacts.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"defi-backtest-lab/internal/domain"
)

// Report is the renderable view of one batch run.
type Report struct {
	GeneratedAt time.Time

	// Members, index-aligned with the batch items. Failed members
	// carry an Error and zero metrics.
	Members []MemberRow

	// Combined portfolio view.
	CombinedSummary domain.SimulationSummary
	CombinedSteps   []*domain.CombinedStep

	Errors []string
}

// MemberRow is one row in the member summary table.
type MemberRow struct {
	Index           int
	Strategy        string
	InitialValueUSD float64
	FinalEquityUSD  float64
	FinalPnlUSD     float64
	ROIPercentage   float64
	APYPercentage   float64
	MaxDrawdownUSD  float64
	StepsCount      int
	Liquidated      bool
	Error           string
}

// BuildReport assembles a Report from a batch result.
func BuildReport(result *domain.BatchResult) *Report {
	r := &Report{
		GeneratedAt:     time.Now().UTC(),
		CombinedSummary: result.CombinedSummary,
		CombinedSteps:   result.CombinedSteps,
		Errors:          result.Errors,
	}

	for i, member := range result.Results {
		row := MemberRow{Index: i}
		if member == nil {
			row.Strategy = "failed"
			row.Error = errorForMember(result.Errors, i)
			r.Members = append(r.Members, row)
			continue
		}
		row.Strategy = string(member.Kind)
		row.InitialValueUSD = member.InitialValueUSD
		row.FinalEquityUSD = member.Summary.FinalEquityUSD
		row.FinalPnlUSD = member.Summary.FinalPnlUSD
		row.ROIPercentage = member.Summary.ROIPercentage
		row.APYPercentage = member.Summary.APYPercentage
		row.MaxDrawdownUSD = member.Summary.MaxDrawdownUSD
		row.StepsCount = member.Summary.StepsCount
		row.Liquidated = memberLiquidated(member)
		r.Members = append(r.Members, row)
	}
	return r
}

// errorForMember finds the recorded error for a batch member. Batch
// errors are prefixed with their item index.
func errorForMember(errs []string, index int) string {
	prefix := fmt.Sprintf("items[%d]:", index)
	for _, e := range errs {
		if strings.HasPrefix(e, prefix) {
			return e
		}
	}
	return ""
}

func memberLiquidated(result *domain.SimulationResult) bool {
	switch result.Kind {
	case domain.KindLending:
		n := len(result.LendingSteps)
		return n > 0 && result.LendingSteps[n-1].Liquidated
	case domain.KindPerp:
		n := len(result.PerpSteps)
		return n > 0 && result.PerpSteps[n-1].Liquidated
	}
	return false
}
