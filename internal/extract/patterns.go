package extract

import "regexp"

// Patterns shared by every case type. The registration-code pattern demands
// exactly 18 alphanumeric characters after the label; anything shorter is
// treated as absent rather than matched partially. Some filings carry the
// code in lowercase, so both cases match and the extractor uppercases.
var (
	registrationCodeRE = regexp.MustCompile(`(?:统一社会信用代码|信用代码)[：:]\s*([0-9A-Za-z]{18})`)
	filingDateRE       = regexp.MustCompile(`\d{4}年\s*\d{1,2}月\s*\d{1,2}日`)
)

// casePattern is one row of the extraction grammar table. A case type either
// scans for repeated three-part trademark tuples (trademarks) or, for the
// non-use grammar, requires three independent single matches (markName,
// markClass, markRegNo) to be present simultaneously.
type casePattern struct {
	// applicant captures the applicant display name in group 1.
	applicant *regexp.Regexp

	// trademarks captures (name, class, registration number) per match, all
	// non-overlapping matches in document order.
	trademarks *regexp.Regexp

	// Single-mark grammar: all three must match or the filing yields zero
	// trademarks.
	markName  *regexp.Regexp
	markClass *regexp.Regexp
	markRegNo *regexp.Regexp
}

// casePatterns holds the per-case-type extraction grammars. Adding a case
// type means adding a row here, not new control flow.
var casePatterns = map[CaseType]casePattern{
	RejectionReview: {
		applicant:  regexp.MustCompile(`(?s)(?:申请人名称[（(]中文[）)]|申请人名称)：\s*([^\n]*?)\s+(?:统一社会信用代码|地址)`),
		trademarks: regexp.MustCompile(`(?s)申请商标：\s*(.*?)\s+类别：\s*(\d+).*?申请号/国际注册号：\s*([0-9A-Za-z]+)`),
	},
	Opposition: {
		applicant:  regexp.MustCompile(`异议人名称：\s*([^\n]*?)\s+统一社会信用代码`),
		trademarks: regexp.MustCompile(`(?s)被异议商标：\s*(.*?)\s+被异议类别：\s*(\d+).*?商标注册号：\s*([0-9A-Za-z]+)`),
	},
	Invalidation: {
		applicant:  regexp.MustCompile(`(?s)(?:申请人名称[（(]中文[）)]|申请人名称)：\s*([^\n]*?)\s+(?:统一社会信用代码|地址)`),
		trademarks: regexp.MustCompile(`(?s)争议商标：\s*(.*?)\s+类别：\s*(\d+).*?注册号/国际注册号：\s*([0-9A-Za-z]+)`),
	},
	NonUseCancellation: {
		applicant: regexp.MustCompile(`(?s)(?:申请人名称|申请人)：\s*([^\n]*?)\s+(?:统一社会信用代码|地址)`),
		markName:  regexp.MustCompile(`商标：[ \t]*([^\n]*)`),
		markClass: regexp.MustCompile(`类别：\s*(\d+)`),
		markRegNo: regexp.MustCompile(`商标注册号：\s*([0-9A-Za-z]+)`),
	},
}

// New-application grammar. The first page names the applicant; later pages
// carry either category lists or power-of-attorney pages naming a trademark.
var (
	newAppApplicantRE = regexp.MustCompile(`申请人名称[（(]中文[）)]：\s*(.*?)\s*[（(]\s*英文[）)]`)
	categoryRE        = regexp.MustCompile(`类别：(\d+)`)
	// The power-of-attorney heading is typically letter-spaced in the source
	// documents, so every character boundary allows whitespace.
	stubMarkerRE      = regexp.MustCompile(`商\s*标\s*代\s*理\s*委\s*托\s*书`)
	stubNamePrimaryRE = regexp.MustCompile(`(?s)商\s*标\s*代\s*理\s*委\s*托\s*书.*?代理\s+(.*?)商标\s*的\s*如下.*?事宜`)
	stubNameLooseRE   = regexp.MustCompile(`代理\s+(.*?)\s*商标`)
)
