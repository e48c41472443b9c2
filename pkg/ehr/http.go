package ehr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinscribe/platform/pkg/common/logger"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/patient-data/{id}", h.getPatientData).Methods(http.MethodGet)
}

func (h *Handler) getPatientData(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.store.Lookup(id)
	switch {
	case errors.Is(err, ErrUnavailable):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "EHR data file not found"})
		return
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient " + id + " not found in EHR data"})
		return
	case err != nil:
		logger.Log.WithError(err).Error("EHR lookup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "error fetching patient data"})
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
