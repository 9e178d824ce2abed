package extract

import (
	"fmt"
	"strings"
)

// UnrecognizedCaseTypeError reports a filename that matched no case-type
// keyword. It is fatal for that single file; the caller skips the file and
// the batch continues.
type UnrecognizedCaseTypeError struct {
	Filename string
}

func (e *UnrecognizedCaseTypeError) Error() string {
	return fmt.Sprintf("无法识别案件类型: %s", e.Filename)
}

// classifyRules maps filename keywords to case types. Order matters: rules
// are checked top to bottom and the first containment match wins, so 驳回复审
// beats the looser 宣告/无效 keywords.
var classifyRules = []struct {
	keywords []string
	caseType CaseType
}{
	{[]string{"驳回", "复审"}, RejectionReview},
	{[]string{"撤三", "撤销连续"}, NonUseCancellation},
	{[]string{"异议"}, Opposition},
	{[]string{"无效", "宣告"}, Invalidation},
	{[]string{"新申请", "注册申请"}, NewApplication},
}

// ClassifyFilename selects the extraction grammar for a filing from keywords
// in its filename.
func ClassifyFilename(filename string) (CaseType, error) {
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(filename, kw) {
				return rule.caseType, nil
			}
		}
	}
	return 0, &UnrecognizedCaseTypeError{Filename: filename}
}

// ClassifyCaseFilename restricts ClassifyFilename to the four case grammars.
// New-application filings have their own extraction path; in a case batch
// such a filename is a misfiled document and fails that file.
func ClassifyCaseFilename(filename string) (CaseType, error) {
	caseType, err := ClassifyFilename(filename)
	if err != nil {
		return 0, err
	}
	if caseType == NewApplication {
		return 0, &UnrecognizedCaseTypeError{Filename: filename}
	}
	return caseType, nil
}
