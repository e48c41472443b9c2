package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	summariesHosted   atomic.Int64
	summariesFallback atomic.Int64
	reportsSaved      atomic.Int64
	reportsDeleted    atomic.Int64
	pdfExports        atomic.Int64
	imageUploads      atomic.Int64
)

func IncSummariesHosted()   { summariesHosted.Add(1) }
func IncSummariesFallback() { summariesFallback.Add(1) }
func IncReportsSaved()      { reportsSaved.Add(1) }
func IncReportsDeleted()    { reportsDeleted.Add(1) }
func IncPDFExports()        { pdfExports.Add(1) }
func IncImageUploads()      { imageUploads.Add(1) }

func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WritePrometheus(w)
	})
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP clinscribe_summaries_hosted_total Summaries generated via the hosted inference collaborator.\n")
	fmt.Fprintf(w, "# TYPE clinscribe_summaries_hosted_total counter\n")
	fmt.Fprintf(w, "clinscribe_summaries_hosted_total %d\n", summariesHosted.Load())

	fmt.Fprintf(w, "# HELP clinscribe_summaries_fallback_total Summaries generated via the local heuristic fallback.\n")
	fmt.Fprintf(w, "# TYPE clinscribe_summaries_fallback_total counter\n")
	fmt.Fprintf(w, "clinscribe_summaries_fallback_total %d\n", summariesFallback.Load())

	fmt.Fprintf(w, "# HELP clinscribe_reports_saved_total Reports persisted.\n")
	fmt.Fprintf(w, "# TYPE clinscribe_reports_saved_total counter\n")
	fmt.Fprintf(w, "clinscribe_reports_saved_total %d\n", reportsSaved.Load())

	fmt.Fprintf(w, "# HELP clinscribe_reports_deleted_total Reports deleted.\n")
	fmt.Fprintf(w, "# TYPE clinscribe_reports_deleted_total counter\n")
	fmt.Fprintf(w, "clinscribe_reports_deleted_total %d\n", reportsDeleted.Load())

	fmt.Fprintf(w, "# HELP clinscribe_pdf_exports_total Report PDF exports served.\n")
	fmt.Fprintf(w, "# TYPE clinscribe_pdf_exports_total counter\n")
	fmt.Fprintf(w, "clinscribe_pdf_exports_total %d\n", pdfExports.Load())

	fmt.Fprintf(w, "# HELP clinscribe_image_uploads_total Images accepted via the upload endpoint.\n")
	fmt.Fprintf(w, "# TYPE clinscribe_image_uploads_total counter\n")
	fmt.Fprintf(w, "clinscribe_image_uploads_total %d\n", imageUploads.Load())
}
