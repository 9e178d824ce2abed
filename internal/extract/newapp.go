package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// pageEvent classifies what a page of a new-application filing contributes to
// the category/stub association scan.
type pageEvent int

const (
	otherPage pageEvent = iota
	categoryBlock
	stubPage
)

// classifyPage decides the event for one page. A page listing categories is
// never also treated as a stub page, even if it happens to mention the
// power-of-attorney heading.
func classifyPage(text string) pageEvent {
	switch {
	case categoryRE.MatchString(text):
		return categoryBlock
	case stubMarkerRE.MatchString(text):
		return stubPage
	default:
		return otherPage
	}
}

// ExtractNewApplication reconciles a new-application filing's pages into a
// CaseRecord. Page 0 yields the applicant identity; later pages are scanned
// in order with one piece of carried state, the FIFO queue of pending
// categories:
//
//   - a category page appends every 类别：N it lists to the queue;
//   - a power-of-attorney ("stub") page names one trademark and claims the
//     entire queue, one TrademarkEntry per queued category. With an empty
//     queue it produces a single entry carrying the manual-input sentinel.
//
// Categories always bind to the nearest following stub page, never a later
// one. Categories still queued at end of document are discarded with a
// warning; they cannot be associated retroactively.
func ExtractNewApplication(pages []string, filename string) (CaseRecord, []Warning) {
	record := CaseRecord{
		SourceFile:       filename,
		CaseType:         NewApplication,
		Applicant:        NotFound,
		RegistrationCode: NotFound,
		FilingDate:       NotFound,
	}

	var warnings []Warning
	var pending []string

	for pageNum, page := range pages {
		if pageNum == 0 {
			extractFirstPage(page, &record)
			continue
		}

		switch classifyPage(page) {
		case categoryBlock:
			for _, m := range categoryRE.FindAllStringSubmatch(page, -1) {
				class, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				pending = append(pending, strconv.Itoa(class))
			}

		case stubPage:
			name := extractStubName(page)
			if name == "" {
				warnings = append(warnings, Warning{
					Kind:    WarnMissingTrademarkName,
					File:    filename,
					Page:    pageNum + 1,
					Message: "委托书中未找到商标名称",
				})
			}

			// The stub page carries the signing date; the most recent one
			// seen anywhere in the document wins.
			if date := extractFilingDate(page); date != NotFound {
				record.FilingDate = date
			}

			if len(pending) > 0 {
				for _, class := range pending {
					record.Trademarks = append(record.Trademarks, TrademarkEntry{
						Name:      name,
						ClassCode: class,
					})
				}
				pending = pending[:0]
			} else {
				record.Trademarks = append(record.Trademarks, TrademarkEntry{
					Name:      name,
					ClassCode: ManualInputRequired,
				})
			}
		}
	}

	if len(pending) > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarnUnresolvedCategory,
			File:    filename,
			Message: fmt.Sprintf("处理完毕但仍有未关联的类别 %v，这些类别将被忽略", pending),
		})
	}

	if record.Applicant == NotFound {
		warnings = append(warnings, Warning{
			Kind:    WarnMissingField,
			File:    filename,
			Page:    1,
			Message: "未找到申请人名称",
		})
	}

	return record, warnings
}

// extractFirstPage pulls applicant, registration code and a provisional date
// from page 0 of a new-application filing.
func extractFirstPage(page string, record *CaseRecord) {
	if m := newAppApplicantRE.FindStringSubmatch(page); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			record.Applicant = name
		}
	}
	record.RegistrationCode = extractRegistrationCode(page)
	record.FilingDate = extractFilingDate(page)
}

// extractStubName pulls the trademark name from a power-of-attorney page,
// preferring the strict phrase pattern and falling back to the loose one.
// An empty result is permitted; the caller flags it.
func extractStubName(page string) string {
	if m := stubNamePrimaryRE.FindStringSubmatch(page); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	if m := stubNameLooseRE.FindStringSubmatch(page); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
