package pdfexport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/clinscribe/platform/pkg/report"
)

func sampleReport() models.Report {
	score := 87.5
	return models.Report{
		ReportUID:        "r-1",
		PatientUID:       "p-1",
		PatientName:      "Jane Doe",
		DoctorName:       "Dr. Gray",
		ClinicalSummary:  "Left temporal mass with surrounding edema.",
		ICD10Code:        "C71.9",
		ICD10Description: "Malignant neoplasm of brain, unspecified",
		ConfidenceScore:  &score,
		Findings:         []string{"mass in left temporal lobe", "midline shift 4mm"},
		Recommendations:  []string{"neurosurgical referral"},
		CreatedAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestExportProducesPDF(t *testing.T) {
	logger.Init()
	out, err := NewExporter().Export(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestExportSurvivesBadImage(t *testing.T) {
	logger.Init()
	rep := sampleReport()
	rep.ReportData = map[string]interface{}{
		"request": map[string]interface{}{
			"images": []interface{}{"!!!not-valid-base64!!!"},
		},
	}

	out, err := NewExporter().Export(rep)
	if err != nil {
		t.Fatalf("bad image must not fail export: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestExportClampsConfidenceForDisplay(t *testing.T) {
	if clampScore(250) != 100 {
		t.Fatal("expected clamp to 100")
	}
	if clampScore(-3) != 0 {
		t.Fatal("expected clamp to 0")
	}
	if clampScore(42) != 42 {
		t.Fatal("in-range score must pass through")
	}
}

func TestExportManyFindingsPaginates(t *testing.T) {
	logger.Init()
	rep := sampleReport()
	rep.Findings = nil
	for i := 0; i < 120; i++ {
		rep.Findings = append(rep.Findings, strings.Repeat("finding text ", 4))
	}

	out, err := NewExporter().Export(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second page object appears when pagination kicked in.
	if bytes.Count(out, []byte("/Page")) < 2 {
		t.Fatal("expected multi-page output")
	}
}

type stubReports struct {
	report models.Report
	err    error
}

func (s stubReports) Get(context.Context, string) (models.Report, error) {
	return s.report, s.err
}

func TestExportEndpoint(t *testing.T) {
	logger.Init()
	router := mux.NewRouter()
	NewHandler(stubReports{report: sampleReport()}, NewExporter()).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/r-1/pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type = %q", got)
	}
}

func TestExportEndpointNotFound(t *testing.T) {
	logger.Init()
	router := mux.NewRouter()
	NewHandler(stubReports{err: report.ErrNotFound}, NewExporter()).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/missing/pdf", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
