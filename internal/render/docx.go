package render

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shenliangsheng/tmbilling/internal/billing"
)

// Statement is everything the billing-statement template needs for one
// applicant.
type Statement struct {
	Applicant   string
	MatterNames []string
	Items       []billing.LineItem
	Summary     billing.FeeSummary
}

// StatementRenderer populates the DOCX billing-statement template. A DOCX
// file is a zip archive whose word/document.xml carries the
// WordprocessingML body; the renderer replaces placeholder tokens in that
// stream and rewrites the first table in place, leaving every other archive
// entry untouched.
type StatementRenderer struct {
	templatePath string
}

// NewStatementRenderer creates a renderer bound to a template path.
func NewStatementRenderer(templatePath string) *StatementRenderer {
	return &StatementRenderer{templatePath: templatePath}
}

const documentXMLName = "word/document.xml"

var tableRowStartRE = regexp.MustCompile(`<w:tr[ >/]`)

// Render writes the populated statement into outputDir and returns the
// generated filename:
// 请款单（{applicant}-{matters joined 、}）-{total}-{YYYYMMDD}.docx
func (r *StatementRenderer) Render(st Statement, date time.Time, outputDir string) (string, error) {
	if _, err := os.Stat(r.templatePath); os.IsNotExist(err) {
		return "", &TemplateMissingError{Path: r.templatePath}
	}

	zr, err := zip.OpenReader(r.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to open template: %w", err)
	}
	defer zr.Close()

	filename := fmt.Sprintf("请款单（%s-%s）-%d-%s.docx",
		st.Applicant, strings.Join(st.MatterNames, "、"), st.Summary.Total, date.Format("20060102"))
	outputPath := filepath.Join(outputDir, filename)

	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range zr.File {
		data, err := readZipEntry(entry)
		if err != nil {
			return "", fmt.Errorf("failed to read template entry %s: %w", entry.Name, err)
		}

		if entry.Name == documentXMLName {
			doc := r.populateDocument(string(data), st, date)
			data = []byte(doc)
		}

		w, err := zw.Create(entry.Name)
		if err != nil {
			return "", fmt.Errorf("failed to write archive entry %s: %w", entry.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return "", fmt.Errorf("failed to write archive entry %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize document: %w", err)
	}
	return filename, nil
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// populateDocument replaces the placeholder tokens and rewrites the first
// table. Placeholders must not be split across runs in the template, which
// holds for templates authored with plain tokens.
func (r *StatementRenderer) populateDocument(doc string, st Statement, date time.Time) string {
	replacer := strings.NewReplacer(
		"{申请人}", xmlEscape(st.Applicant),
		"{事宜类型}", xmlEscape(strings.Join(st.MatterNames, "、")),
		"{日期}", date.Format("2006年01月02日"),
		"{总官费}", strconv.FormatInt(st.Summary.TotalOfficial, 10),
		"{总代理费}", strconv.FormatInt(st.Summary.TotalAgent, 10),
		"{总计}", strconv.FormatInt(st.Summary.Total, 10),
		"{大写}", xmlEscape(st.Summary.Capitalized),
	)
	doc = replacer.Replace(doc)
	return r.rewriteTable(doc, st)
}

// rewriteTable keeps the header row of the first table, drops the template's
// sample rows and appends one row per line item plus the 合计 row. The table
// is expected to have seven columns: index, matter type, trademark, class,
// official fee, agent fee, subtotal.
func (r *StatementRenderer) rewriteTable(doc string, st Statement) string {
	tblStart := strings.Index(doc, "<w:tbl>")
	if tblStart < 0 {
		tblStart = strings.Index(doc, "<w:tbl ")
	}
	if tblStart < 0 {
		return doc
	}
	tblEnd := strings.Index(doc[tblStart:], "</w:tbl>")
	if tblEnd < 0 {
		return doc
	}
	tblEnd += tblStart
	table := doc[tblStart:tblEnd]

	// First <w:tr...> in the table is the header row; keep it, discard the
	// rest of the rows.
	headerLoc := tableRowStartRE.FindStringIndex(table)
	if headerLoc == nil {
		return doc
	}
	headerEnd := strings.Index(table[headerLoc[0]:], "</w:tr>")
	if headerEnd < 0 {
		return doc
	}
	headerEnd += headerLoc[0] + len("</w:tr>")

	var b strings.Builder
	b.WriteString(table[:headerEnd])
	for i, item := range st.Items {
		b.WriteString(tableRow(
			cell(strconv.Itoa(i+1), 1),
			cell(item.CaseType.MatterName(), 1),
			cell(item.Trademark, 1),
			cell(item.ClassCode, 1),
			cell(strconv.FormatInt(item.OfficialFee, 10), 1),
			cell(strconv.FormatInt(item.AgentFee, 10), 1),
			cell(strconv.FormatInt(item.Subtotal, 10), 1),
		))
	}
	b.WriteString(tableRow(
		cell("合计", 4),
		cell(strconv.FormatInt(st.Summary.TotalOfficial, 10), 1),
		cell(strconv.FormatInt(st.Summary.TotalAgent, 10), 1),
		cell(strconv.FormatInt(st.Summary.Total, 10), 1),
	))

	return doc[:tblStart] + b.String() + doc[tblEnd:]
}

type tableCell struct {
	text string
	span int
}

func cell(text string, span int) tableCell {
	return tableCell{text: text, span: span}
}

func tableRow(cells ...tableCell) string {
	var b strings.Builder
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString("<w:tc>")
		if c.span > 1 {
			fmt.Fprintf(&b, `<w:tcPr><w:gridSpan w:val="%d"/></w:tcPr>`, c.span)
		}
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(c.text))
		b.WriteString("</w:t></w:r></w:p></w:tc>")
	}
	b.WriteString("</w:tr>")
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

// ReadDocumentXML extracts word/document.xml from a DOCX file. Used by tests
// and debugging tools to inspect generated statements.
func ReadDocumentXML(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.Name != documentXMLName {
			continue
		}
		data, err := readZipEntry(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("%s not found in %s", documentXMLName, path)
}
