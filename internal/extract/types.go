package extract

import "fmt"

// NotFound is the sentinel recorded for identity fields that could not be
// located in the source text. Extraction never fails on a missing field.
const NotFound = "N/A"

// ManualInputRequired marks a trademark whose class could not be associated
// automatically. The operator must supply classes before fee calculation can
// include the mark.
const ManualInputRequired = "MANUAL_INPUT_REQUIRED"

// CaseType identifies which extraction grammar applies to a filing.
type CaseType int

const (
	NewApplication CaseType = iota
	RejectionReview
	Opposition
	Invalidation
	NonUseCancellation
)

// String returns the stable tag used in logs and JSON output.
func (ct CaseType) String() string {
	switch ct {
	case NewApplication:
		return "new_application"
	case RejectionReview:
		return "rejection_review"
	case Opposition:
		return "opposition"
	case Invalidation:
		return "invalidation"
	case NonUseCancellation:
		return "non_use_cancellation"
	default:
		return "unknown"
	}
}

// MatterName returns the display name used on billing statements.
func (ct CaseType) MatterName() string {
	switch ct {
	case NewApplication:
		return "商标注册申请"
	case RejectionReview:
		return "驳回复审"
	case Opposition:
		return "商标异议"
	case Invalidation:
		return "无效宣告"
	case NonUseCancellation:
		return "撤三申请"
	default:
		return "未知类型"
	}
}

// MarshalText implements encoding.TextMarshaler so case types serialize as
// their tag in JSON dumps.
func (ct CaseType) MarshalText() ([]byte, error) {
	return []byte(ct.String()), nil
}

// TrademarkEntry is one (trademark, class) pair extracted from a filing.
// RegistrationNumber is only present for case types other than NewApplication.
type TrademarkEntry struct {
	Name               string `json:"name"`
	ClassCode          string `json:"class_code"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// NeedsManualClass reports whether the class still carries the manual-input
// sentinel.
func (e TrademarkEntry) NeedsManualClass() bool {
	return e.ClassCode == ManualInputRequired
}

// CaseRecord is the canonical extracted unit for one filing.
type CaseRecord struct {
	SourceFile       string           `json:"source_file"`
	CaseType         CaseType         `json:"case_type"`
	Applicant        string           `json:"applicant"`
	RegistrationCode string           `json:"registration_code"`
	FilingDate       string           `json:"filing_date"`
	Trademarks       []TrademarkEntry `json:"trademarks"`
}

// WarningKind categorizes non-fatal extraction conditions.
type WarningKind int

const (
	// WarnMissingField means an identity field fell back to "N/A".
	WarnMissingField WarningKind = iota
	// WarnUnresolvedCategory means pending categories were never claimed by a
	// power-of-attorney page and were discarded.
	WarnUnresolvedCategory
	// WarnMissingTrademarkName means a power-of-attorney page named no
	// trademark; the empty name propagates downstream.
	WarnMissingTrademarkName
)

func (k WarningKind) String() string {
	switch k {
	case WarnMissingField:
		return "missing_field"
	case WarnUnresolvedCategory:
		return "unresolved_category"
	case WarnMissingTrademarkName:
		return "missing_trademark_name"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k WarningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Warning records a recoverable extraction condition. Warnings never block
// processing; they are surfaced to the operator alongside the results.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	File    string      `json:"file"`
	Page    int         `json:"page,omitempty"` // 1-based, 0 when not page-scoped
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] %s 第%d页: %s", w.Kind, w.File, w.Page, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.File, w.Message)
}
