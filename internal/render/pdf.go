package render

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// renderPDF builds the paginated export. Core fonts only, so text goes
// through the cp1252 translator to keep Portuguese accents intact.
func renderPDF(d Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25.4, 25.4, 25.4)
	pdf.SetAutoPageBreak(true, 25.4)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(21, 101, 192)
	pdf.CellFormat(0, 10, tr(d.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, tr(generatedLine(d.GeneratedAt)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockSpacer:
			pdf.Ln(3)
		case BlockHeading:
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(33, 150, 243)
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
			pdf.Ln(2)
		case BlockSubheading:
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetTextColor(66, 165, 245)
			pdf.MultiCell(0, 6, tr(b.Text), "", "L", false)
			pdf.Ln(1)
		case BlockEmphasis:
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 6, tr(b.Text), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 6, tr(b.Text), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
