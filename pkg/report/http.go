package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/report", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/report/{uid}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/report/{uid}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/reports", h.handleList).Methods(http.MethodGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.PatientUID == "" {
		http.Error(w, "patient_uid is required", http.StatusBadRequest)
		return
	}
	if req.ClinicalSummary == "" {
		http.Error(w, "clinical_summary is required", http.StatusBadRequest)
		return
	}

	saved, err := h.service.Save(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			http.Error(w, "report UID already exists", http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to save report")
		http.Error(w, "failed to save report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	rep, err := h.service.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get report")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := models.ReportFilter{
		PatientUID: r.URL.Query().Get("patient_uid"),
		DoctorName: r.URL.Query().Get("doctor_name"),
		Skip:       parseIntQuery(r, "skip", 0),
		Limit:      parseIntQuery(r, "limit", 100),
	}
	reports, err := h.service.List(r.Context(), filter)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list reports")
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if err := h.service.Delete(r.Context(), uid); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete report")
		http.Error(w, "failed to delete report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Report deleted successfully"})
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
