// Command tmextract runs the extraction stage on a single filing PDF and
// prints the resulting case record and warnings as JSON. It exists for
// checking extraction behavior against new filing layouts without running a
// full billing batch.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shenliangsheng/tmbilling/internal/extract"
	"github.com/shenliangsheng/tmbilling/internal/pdftext"
)

var (
	mode        = flag.String("mode", "newapp", "Extraction mode: newapp, case")
	maxFileSize = flag.Int64("maxfilesize", 100*1024*1024, "Maximum PDF file size in bytes")
	showPages   = flag.Bool("pages", false, "Also print the normalized per-page text")
)

type output struct {
	Record   extract.CaseRecord `json:"record"`
	Warnings []extract.Warning  `json:"warnings"`
	Pages    []string           `json:"pages,omitempty"`
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <filing.pdf>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if err := run(pdfPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(pdfPath string) error {
	if err := pdftext.NewValidator(*maxFileSize).ValidateFile(pdfPath); err != nil {
		return err
	}

	pages, err := pdftext.NewReader(*maxFileSize).ExtractNormalizedPages(pdfPath)
	if err != nil {
		return err
	}

	name := filepath.Base(pdfPath)
	var out output
	switch *mode {
	case "newapp":
		out.Record, out.Warnings = extract.ExtractNewApplication(pages, name)
	case "case":
		caseType, err := extract.ClassifyCaseFilename(name)
		if err != nil {
			return err
		}
		out.Record, out.Warnings = extract.ExtractCase(pdftext.FilterCasePages(pages), name, caseType)
	default:
		return fmt.Errorf("unknown mode %q (want newapp or case)", *mode)
	}

	if *showPages {
		out.Pages = pages
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
