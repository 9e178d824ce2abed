package billing

import (
	"fmt"

	"github.com/shenliangsheng/tmbilling/internal/extract"
)

// OfficialFees is the fixed official-fee table in yuan per case type.
var OfficialFees = map[extract.CaseType]int64{
	extract.NewApplication:     270,
	extract.RejectionReview:    675,
	extract.Opposition:         450,
	extract.NonUseCancellation: 450,
	extract.Invalidation:       750,
}

// LineItem is one billable trademark × class with its fees attached.
type LineItem struct {
	CaseType           extract.CaseType
	Trademark          string
	ClassCode          string
	RegistrationNumber string
	OfficialFee        int64
	AgentFee           int64
	Subtotal           int64
}

// FeeSummary holds per-applicant totals. It is derived from the line items
// and recomputed whenever they change, never stored independently.
type FeeSummary struct {
	TotalOfficial int64
	TotalAgent    int64
	Total         int64
	Capitalized   string
}

// Calculate prices a group's resolved items. The agent fee is a single
// non-negative amount applied uniformly to every line item of the applicant.
func Calculate(group *ApplicantGroup, agentFee int64) ([]LineItem, FeeSummary, error) {
	if agentFee < 0 {
		return nil, FeeSummary{}, fmt.Errorf("agent fee must be non-negative, got %d", agentFee)
	}

	items := make([]LineItem, 0, len(group.Items))
	var summary FeeSummary
	for _, cand := range group.Items {
		official, ok := OfficialFees[cand.CaseType]
		if !ok {
			return nil, FeeSummary{}, fmt.Errorf("no official fee for case type %s", cand.CaseType)
		}
		item := LineItem{
			CaseType:           cand.CaseType,
			Trademark:          cand.Trademark,
			ClassCode:          cand.ClassCode,
			RegistrationNumber: cand.RegistrationNumber,
			OfficialFee:        official,
			AgentFee:           agentFee,
			Subtotal:           official + agentFee,
		}
		items = append(items, item)
		summary.TotalOfficial += item.OfficialFee
		summary.TotalAgent += item.AgentFee
	}

	summary.Total = summary.TotalOfficial + summary.TotalAgent
	summary.Capitalized = CapitalAmount(summary.Total)
	return items, summary, nil
}
