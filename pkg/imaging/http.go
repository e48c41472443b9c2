package imaging

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/observability/metrics"
)

// maxUploadBytes caps a single image upload. Typical MRI slice exports are
// well under this.
const maxUploadBytes = 20 << 20

// UploadResponse echoes the received file back to the client as base64 so
// the browser can attach it to a later summary request.
type UploadResponse struct {
	Filename    string `json:"filename"`
	Size        int    `json:"size"`
	Base64      string `json:"base64"`
	ContentType string `json:"content_type"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/upload-image", h.uploadImage).Methods(http.MethodPost)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart upload: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		logger.Log.WithError(err).Error("reading uploaded image failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "error processing image"})
		return
	}

	metrics.IncImageUploads()
	logger.Log.WithField("filename", header.Filename).WithField("size", len(contents)).Info("image uploaded")

	writeJSON(w, http.StatusOK, UploadResponse{
		Filename:    header.Filename,
		Size:        len(contents),
		Base64:      base64.StdEncoding.EncodeToString(contents),
		ContentType: header.Header.Get("Content-Type"),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
