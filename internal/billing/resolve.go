package billing

import (
	"strconv"
	"strings"

	"github.com/shenliangsheng/tmbilling/internal/extract"
)

// ResolutionKey builds the lookup key for an operator-supplied class
// resolution: "applicant/trademark".
func ResolutionKey(applicant, trademark string) string {
	return applicant + "/" + trademark
}

// ParseClassList splits an operator-supplied comma-separated class list into
// canonical class codes. Blank segments and non-numeric entries are dropped;
// an empty result is valid and means the trademark stays excluded.
func ParseClassList(input string) []string {
	var classes []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		class, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		classes = append(classes, strconv.Itoa(class))
	}
	return classes
}

// ApplyResolutions consumes each group's unresolved marks using the
// operator-supplied resolutions, keyed by ResolutionKey. Every supplied class
// yields one item candidate; a missing or empty resolution leaves the mark
// permanently excluded from this run, which is allowed and not an error.
// Unresolved marks from new-application filings are the only ones that exist,
// so resolved candidates are booked as new-application items.
func ApplyResolutions(groups []*ApplicantGroup, resolutions map[string]string) {
	for _, group := range groups {
		remaining := group.Unresolved[:0]
		for _, mark := range group.Unresolved {
			classes := ParseClassList(resolutions[ResolutionKey(group.Applicant, mark.Trademark)])
			if len(classes) == 0 {
				remaining = append(remaining, mark)
				continue
			}
			for _, class := range classes {
				group.Items = append(group.Items, ItemCandidate{
					CaseType:  extract.NewApplication,
					Trademark: mark.Trademark,
					ClassCode: class,
				})
			}
		}
		group.Unresolved = remaining
	}
}
