package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shenliangsheng/tmbilling/internal/billing"
	"github.com/shenliangsheng/tmbilling/internal/config"
	"github.com/shenliangsheng/tmbilling/internal/extract"
	"github.com/shenliangsheng/tmbilling/internal/pdftext"
	"github.com/shenliangsheng/tmbilling/internal/render"
)

// FileError records a per-file failure. The batch as a whole never aborts
// because one file failed.
type FileError struct {
	File string `json:"file"`
	Err  error  `json:"-"`
}

func (e FileError) String() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// GeneratedFile describes one document produced by the render stage.
type GeneratedFile struct {
	Name string
	Path string
	Kind string // "statement" or "invoice_sheet"
}

// Session is the explicit pipeline context for one batch run. It owns all
// state the stages exchange: extracted records, warnings, per-file errors,
// applicant groups and the generated-file list. Sessions are single-use and
// single-threaded; nothing in them is shared across runs.
type Session struct {
	cfg       *config.Config
	id        string
	validator *pdftext.Validator
	reader    *pdftext.Reader
	now       func() time.Time

	records    []extract.CaseRecord
	warnings   []extract.Warning
	fileErrors []FileError
	groups     []*billing.ApplicantGroup
	generated  []GeneratedFile
}

// NewSession creates a session for one batch run.
func NewSession(cfg *config.Config) *Session {
	return &Session{
		cfg:       cfg,
		id:        uuid.NewString(),
		validator: pdftext.NewValidator(cfg.MaxFileSize),
		reader:    pdftext.NewReader(cfg.MaxFileSize),
		now:       time.Now,
	}
}

// ID returns the session's run identifier.
func (s *Session) ID() string { return s.id }

// Records returns the case records extracted so far.
func (s *Session) Records() []extract.CaseRecord { return s.records }

// Warnings returns all non-fatal extraction conditions.
func (s *Session) Warnings() []extract.Warning { return s.warnings }

// FileErrors returns the per-file failures of the batch.
func (s *Session) FileErrors() []FileError { return s.fileErrors }

// Groups returns the applicant groups built by Generate.
func (s *Session) Groups() []*billing.ApplicantGroup { return s.groups }

// Generated returns the documents produced by Generate.
func (s *Session) Generated() []GeneratedFile { return s.generated }

// ProcessBatch extracts every PDF in the configured input directory,
// sequentially and in sorted filename order. A failing file is recorded and
// skipped; the returned error is non-nil only when the directory itself
// cannot be read.
func (s *Session) ProcessBatch() error {
	entries, err := os.ReadDir(s.cfg.InputDir)
	if err != nil {
		return fmt.Errorf("cannot read input directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.processFile(name); err != nil {
			s.fileErrors = append(s.fileErrors, FileError{File: name, Err: err})
		}
	}
	return nil
}

// processFile runs the extraction stages for a single PDF.
func (s *Session) processFile(name string) error {
	path := filepath.Join(s.cfg.InputDir, name)
	if err := s.validator.ValidateFile(path); err != nil {
		return err
	}

	pages, err := s.reader.ExtractNormalizedPages(path)
	if err != nil {
		return err
	}

	var record extract.CaseRecord
	var warnings []extract.Warning
	if s.cfg.IsCaseMode() {
		caseType, err := extract.ClassifyCaseFilename(name)
		if err != nil {
			return err
		}
		text := pdftext.FilterCasePages(pages)
		record, warnings = extract.ExtractCase(text, name, caseType)
	} else {
		record, warnings = extract.ExtractNewApplication(pages, name)
	}

	s.records = append(s.records, record)
	s.warnings = append(s.warnings, warnings...)
	return nil
}

// Generate aggregates the extracted records, applies the operator's manual
// class resolutions and agent fees, and renders one billing statement per
// applicant plus the shared invoice-application spreadsheet. A render-stage
// failure leaves the extraction results intact so generation can be retried
// once the problem (typically a missing template) is fixed.
func (s *Session) Generate() error {
	s.groups = billing.GroupByApplicant(s.records)
	billing.ApplyResolutions(s.groups, s.cfg.Classes)

	statements := render.NewStatementRenderer(s.cfg.StatementTemplate)
	sheets := render.NewInvoiceSheetRenderer(s.cfg.InvoiceTemplate, s.cfg.IsCaseMode())
	date := s.now()

	var generated []GeneratedFile
	var invoiceRows []render.InvoiceRow
	for _, group := range s.groups {
		if len(group.Items) == 0 {
			continue
		}

		agentFee := s.cfg.AgentFeeFor(group.Applicant)
		items, summary, err := billing.Calculate(group, agentFee)
		if err != nil {
			return fmt.Errorf("fee calculation for %s: %w", group.Applicant, err)
		}

		name, err := statements.Render(render.Statement{
			Applicant:   group.Applicant,
			MatterNames: group.MatterNames(),
			Items:       items,
			Summary:     summary,
		}, date, s.cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("statement for %s: %w", group.Applicant, err)
		}
		generated = append(generated, GeneratedFile{
			Name: name,
			Path: filepath.Join(s.cfg.OutputDir, name),
			Kind: "statement",
		})

		invoiceRows = append(invoiceRows, render.InvoiceRow{
			Applicant:        group.Applicant,
			RegistrationCode: group.RegistrationCode,
			TotalOfficial:    summary.TotalOfficial,
			TotalAgent:       summary.TotalAgent,
			Total:            summary.Total,
		})
	}

	if len(invoiceRows) > 0 {
		name, err := sheets.Render(invoiceRows, date, s.cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("invoice sheet: %w", err)
		}
		generated = append(generated, GeneratedFile{
			Name: name,
			Path: filepath.Join(s.cfg.OutputDir, name),
			Kind: "invoice_sheet",
		})
	}

	s.generated = generated
	return nil
}

// UnresolvedMarks lists the (applicant, trademark) pairs that still need an
// operator-supplied class list. Callers surface these before Generate so the
// operator can fill in the params file.
func (s *Session) UnresolvedMarks() []billing.UnresolvedMark {
	var marks []billing.UnresolvedMark
	for _, group := range billing.GroupByApplicant(s.records) {
		marks = append(marks, group.Unresolved...)
	}
	return marks
}
