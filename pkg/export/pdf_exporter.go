package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders tables into a basic tabular PDF document.
type PDFExporter struct {
	institution string
	footerNote  string
}

// NewPDFExporter constructs a PDF exporter branded with the institution name.
func NewPDFExporter(institution, footerNote string) *PDFExporter {
	return &PDFExporter{institution: institution, footerNote: footerNote}
}

// Render creates a PDF document with a title, table body and summary lines.
func (e *PDFExporter) Render(table Table, title string) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if e.institution != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, e.institution, "", 1, "C", false, 0, "")
	}
	if title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(table.Headers))
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range table.Rows {
		for _, header := range table.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(table.Summary) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		for _, line := range table.Summary {
			pdf.CellFormat(0, 7, line, "", 1, "R", false, 0, "")
		}
	}

	if e.footerNote != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, e.footerNote, "", 1, "L", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
