package pdftext

import "strings"

// PageBreakMarker separates page texts when a document is joined into a
// single string. Splitting on it recovers the original page boundaries.
const PageBreakMarker = "\n---PAGE_BREAK---\n"

// wideSpaceReplacer collapses the whitespace variants that PDF text
// extraction tends to produce: ideographic space (U+3000) and non-breaking
// space (U+00A0).
var wideSpaceReplacer = strings.NewReplacer("\u3000", " ", "\u00a0", " ")

// NormalizePage cleans a single page's extracted text. Empty input yields
// an empty string.
func NormalizePage(text string) string {
	return strings.TrimSpace(wideSpaceReplacer.Replace(text))
}

// NormalizePages cleans every page in order. The result always has the same
// length as the input so page indices stay aligned with the source document;
// pages that extracted no text stay empty rather than being dropped.
func NormalizePages(pages []string) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = NormalizePage(p)
	}
	return out
}

// JoinPages concatenates normalized pages with the page-break marker.
func JoinPages(pages []string) string {
	return strings.Join(pages, PageBreakMarker)
}

// SplitPages is the inverse of JoinPages.
func SplitPages(text string) []string {
	return strings.Split(text, PageBreakMarker)
}

// casePageKeywords marks pages that belong to the application document proper
// in case-mode filings. Cover pages and receipts are skipped entirely.
var casePageKeywords = []string{"申请书", "申 请 书", "撤销", "异议", "无效", "宣告"}

// FilterCasePages keeps only the pages of a case-mode filing that contain an
// application-document keyword, normalizes them and joins them with no
// separator. This mirrors how operators read these filings: everything
// relevant sits on the application pages themselves.
func FilterCasePages(pages []string) string {
	var b strings.Builder
	for _, page := range pages {
		if page == "" {
			continue
		}
		for _, kw := range casePageKeywords {
			if strings.Contains(page, kw) {
				b.WriteString(NormalizePage(page))
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}
