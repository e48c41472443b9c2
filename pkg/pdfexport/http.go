package pdfexport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/clinscribe/platform/pkg/observability/metrics"
	"github.com/clinscribe/platform/pkg/report"
)

// ReportGetter fetches the report to render; satisfied by the report service.
type ReportGetter interface {
	Get(ctx context.Context, uid string) (models.Report, error)
}

type Handler struct {
	reports  ReportGetter
	exporter *Exporter
}

func NewHandler(reports ReportGetter, exporter *Exporter) *Handler {
	return &Handler{reports: reports, exporter: exporter}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/report/{uid}/pdf", h.exportPDF).Methods(http.MethodGet)
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	rep, err := h.reports.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "report not found")
			return
		}
		logger.Log.WithError(err).Error("fetching report for pdf export failed")
		writeJSONError(w, http.StatusInternalServerError, "error fetching report")
		return
	}

	pdfBytes, err := h.exporter.Export(rep)
	if err != nil {
		logger.Log.WithError(err).WithField("report_uid", uid).Error("pdf export failed")
		writeJSONError(w, http.StatusInternalServerError, "pdf export failed")
		return
	}

	metrics.IncPDFExports()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report-`+uid+`.pdf"`)
	if _, err := w.Write(pdfBytes); err != nil {
		logger.Log.WithError(err).Warn("writing pdf response failed")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
