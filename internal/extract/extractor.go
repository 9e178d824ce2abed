package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ExtractCase runs the grammar table for the given case type over the full
// normalized text of one filing. It is a pure function of its inputs: missing
// fields fall back to the "N/A" sentinel with a warning, a missing trademark
// pattern yields an empty list, and it never returns an error.
func ExtractCase(text, filename string, caseType CaseType) (CaseRecord, []Warning) {
	pattern, ok := casePatterns[caseType]
	if !ok {
		// NewApplication filings go through ExtractNewApplication; an unknown
		// type here still degrades to an all-sentinel record.
		return CaseRecord{
			SourceFile:       filename,
			CaseType:         caseType,
			Applicant:        NotFound,
			RegistrationCode: NotFound,
			FilingDate:       NotFound,
		}, nil
	}

	record := CaseRecord{
		SourceFile:       filename,
		CaseType:         caseType,
		Applicant:        extractApplicant(text, pattern.applicant),
		RegistrationCode: extractRegistrationCode(text),
		FilingDate:       extractFilingDate(text),
	}

	var warnings []Warning
	if record.Applicant == NotFound {
		warnings = append(warnings, Warning{
			Kind:    WarnMissingField,
			File:    filename,
			Message: "未找到申请人名称",
		})
	}
	if record.RegistrationCode == NotFound {
		warnings = append(warnings, Warning{
			Kind:    WarnMissingField,
			File:    filename,
			Message: "未找到统一社会信用代码",
		})
	}
	if record.FilingDate == NotFound {
		warnings = append(warnings, Warning{
			Kind:    WarnMissingField,
			File:    filename,
			Message: "未找到申请日期",
		})
	}

	if pattern.trademarks != nil {
		record.Trademarks = extractTrademarkTuples(text, pattern)
	} else {
		record.Trademarks = extractSingleMark(text, pattern)
	}
	if len(record.Trademarks) == 0 {
		warnings = append(warnings, Warning{
			Kind:    WarnMissingField,
			File:    filename,
			Message: fmt.Sprintf("未找到商标信息 (%s)", caseType.MatterName()),
		})
	}

	return record, warnings
}

func extractApplicant(text string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return NotFound
}

// extractRegistrationCode returns the 18-character unified social credit code
// in canonical uppercase, or "N/A". Partial matches are impossible: the
// pattern requires the full 18 characters.
func extractRegistrationCode(text string) string {
	if m := registrationCodeRE.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return NotFound
}

// extractFilingDate returns the first localized date in the text with
// interior whitespace removed, or "N/A".
func extractFilingDate(text string) string {
	if m := filingDateRE.FindString(text); m != "" {
		return strings.ReplaceAll(m, " ", "")
	}
	return NotFound
}

// extractTrademarkTuples collects every non-overlapping (name, class,
// registration number) match in document order. One filing can name several
// trademarks.
func extractTrademarkTuples(text string, pattern casePattern) []TrademarkEntry {
	var entries []TrademarkEntry
	for _, m := range pattern.trademarks.FindAllStringSubmatch(text, -1) {
		class, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		entries = append(entries, TrademarkEntry{
			Name:               strings.TrimSpace(m[1]),
			ClassCode:          strconv.Itoa(class),
			RegistrationNumber: m[3],
		})
	}
	return entries
}

// extractSingleMark implements the non-use grammar: the trademark name, class
// and registration number must all be present simultaneously, otherwise the
// filing yields zero trademarks.
func extractSingleMark(text string, pattern casePattern) []TrademarkEntry {
	nameMatch := pattern.markName.FindStringSubmatch(text)
	classMatch := pattern.markClass.FindStringSubmatch(text)
	regNoMatch := pattern.markRegNo.FindStringSubmatch(text)
	if nameMatch == nil || classMatch == nil || regNoMatch == nil {
		return nil
	}

	class, err := strconv.Atoi(classMatch[1])
	if err != nil {
		return nil
	}
	return []TrademarkEntry{{
		Name:               strings.TrimSpace(nameMatch[1]),
		ClassCode:          strconv.Itoa(class),
		RegistrationNumber: regNoMatch[1],
	}}
}
