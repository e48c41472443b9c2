package pdfexport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
)

const (
	pageBreakAt = 265.0 // mm, leave room for the footer on A4
	leftMargin  = 15.0
	lineWidth   = 180.0
)

// Exporter renders a saved report as a fixed-layout PDF document.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the report into a single PDF. Image decode failures are
// logged and skipped; the text sections are always rendered. The method
// never panics; layout errors surface as a regular error.
func (e *Exporter) Export(report models.Report) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf assembly failed: %v", r)
		}
	}()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(leftMargin, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(lineWidth, 10, "Clinical Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(lineWidth, 5, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 UTC"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Patient block
	writeSectionTitle(pdf, "Patient")
	writeKeyValue(pdf, "Patient ID", report.PatientUID)
	writeKeyValue(pdf, "Name", orNA(report.PatientName))
	writeKeyValue(pdf, "Doctor", orNA(report.DoctorName))
	writeKeyValue(pdf, "Report ID", report.ReportUID)
	if !report.CreatedAt.IsZero() {
		writeKeyValue(pdf, "Saved", report.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	pdf.Ln(3)

	// Summary
	writeSectionTitle(pdf, "Clinical Summary")
	writeParagraph(pdf, orNA(report.ClinicalSummary))
	pdf.Ln(3)

	// ICD block; confidence is clamped for display only
	writeSectionTitle(pdf, "ICD-10 Coding")
	writeKeyValue(pdf, "Code", orNA(report.ICD10Code))
	writeKeyValue(pdf, "Description", orNA(report.ICD10Description))
	if report.ICD10Category != "" {
		writeKeyValue(pdf, "Category", report.ICD10Category)
	}
	if report.ConfidenceScore != nil {
		writeKeyValue(pdf, "Confidence", fmt.Sprintf("%.0f%%", clampScore(*report.ConfidenceScore)))
	}
	pdf.Ln(3)

	writeBulletSection(pdf, "Findings", report.Findings)
	writeBulletSection(pdf, "Recommendations", report.Recommendations)

	if img := snapshotImage(report); img != "" {
		e.drawImage(pdf, report.ReportUID, img, report.ImageCaption)
	} else if report.ImageCaption != "" {
		writeSectionTitle(pdf, "Imaging")
		writeParagraph(pdf, report.ImageCaption)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawImage places the attached study below the text sections. Any decode
// or registration failure keeps the rest of the document intact.
func (e *Exporter) drawImage(pdf *gofpdf.Fpdf, reportUID, encoded, caption string) {
	payload := encoded
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logger.Log.WithError(err).WithField("report_uid", reportUID).Warn("report image skipped, decode failed")
		return
	}
	imageType := sniffImageType(decoded)
	if imageType == "" {
		logger.Log.WithField("report_uid", reportUID).Warn("report image skipped, unsupported format")
		return
	}

	breakPage(pdf, 90)
	writeSectionTitle(pdf, "Imaging")
	name := "report-image-" + reportUID
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(decoded))
	if pdf.Err() {
		logger.Log.WithField("report_uid", reportUID).Warn("report image skipped, registration failed")
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, leftMargin, pdf.GetY(), 120, 0, true, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	if caption != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(lineWidth, 5, caption, "", "L", false)
	}
}

func writeSectionTitle(pdf *gofpdf.Fpdf, title string) {
	breakPage(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(lineWidth, 7, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeKeyValue(pdf *gofpdf.Fpdf, key, value string) {
	breakPage(pdf, 10)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(lineWidth-40, 6, value, "", "L", false)
}

func writeParagraph(pdf *gofpdf.Fpdf, text string) {
	breakPage(pdf, 15)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(lineWidth, 5, text, "", "L", false)
}

func writeBulletSection(pdf *gofpdf.Fpdf, title string, items []string) {
	if len(items) == 0 {
		return
	}
	writeSectionTitle(pdf, title)
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		breakPage(pdf, 10)
		pdf.CellFormat(5, 5, "-", "", 0, "L", false, 0, "")
		pdf.MultiCell(lineWidth-5, 5, item, "", "L", false)
	}
	pdf.Ln(3)
}

// breakPage starts a new page when fewer than need millimeters remain
// below the cursor.
func breakPage(pdf *gofpdf.Fpdf, need float64) {
	if pdf.GetY()+need > pageBreakAt {
		pdf.AddPage()
	}
}

// clampScore bounds the stored confidence to 0-100 for display; storage
// itself does not validate the range.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// snapshotImage pulls the first base64 image out of the report's request
// snapshot, when one was saved.
func snapshotImage(report models.Report) string {
	request, ok := report.ReportData["request"].(map[string]interface{})
	if !ok {
		return ""
	}
	images, ok := request["images"].([]interface{})
	if !ok || len(images) == 0 {
		return ""
	}
	first, _ := images[0].(string)
	return first
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG"
	case len(data) > 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "GIF"
	default:
		return ""
	}
}
