package billing

import "github.com/shenliangsheng/tmbilling/internal/extract"

// ItemCandidate is a trademark with a resolved class, ready for fee
// calculation once the operator has chosen an agent fee.
type ItemCandidate struct {
	CaseType           extract.CaseType
	Trademark          string
	ClassCode          string
	RegistrationNumber string
}

// UnresolvedMark is a trademark still carrying the manual-input sentinel.
// The operator resolves it to zero or more classes before generation.
type UnresolvedMark struct {
	Applicant  string
	Trademark  string
	SourceFile string
}

// ApplicantGroup is the merged view of all filings sharing one applicant
// display name.
type ApplicantGroup struct {
	Applicant        string
	RegistrationCode string
	FilingDate       string
	Items            []ItemCandidate
	Unresolved       []UnresolvedMark
}

// GroupByApplicant merges case records by exact applicant display name.
// Groups come out in first-appearance order. Registration code and filing
// date follow "last non-sentinel value wins", scanning records in input
// order; trademark entries are flattened in input order, with sentinel-class
// entries deferred to manual resolution.
func GroupByApplicant(records []extract.CaseRecord) []*ApplicantGroup {
	byName := make(map[string]*ApplicantGroup)
	var groups []*ApplicantGroup

	for _, rec := range records {
		group, ok := byName[rec.Applicant]
		if !ok {
			group = &ApplicantGroup{
				Applicant:        rec.Applicant,
				RegistrationCode: extract.NotFound,
				FilingDate:       extract.NotFound,
			}
			byName[rec.Applicant] = group
			groups = append(groups, group)
		}

		if rec.RegistrationCode != extract.NotFound {
			group.RegistrationCode = rec.RegistrationCode
		}
		if rec.FilingDate != extract.NotFound {
			group.FilingDate = rec.FilingDate
		}

		for _, tm := range rec.Trademarks {
			if tm.NeedsManualClass() {
				group.Unresolved = append(group.Unresolved, UnresolvedMark{
					Applicant:  rec.Applicant,
					Trademark:  tm.Name,
					SourceFile: rec.SourceFile,
				})
				continue
			}
			group.Items = append(group.Items, ItemCandidate{
				CaseType:           rec.CaseType,
				Trademark:          tm.Name,
				ClassCode:          tm.ClassCode,
				RegistrationNumber: tm.RegistrationNumber,
			})
		}
	}

	return groups
}

// MatterNames returns the distinct matter display names of a group's items,
// in item order.
func (g *ApplicantGroup) MatterNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range g.Items {
		name := item.CaseType.MatterName()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
