package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/clinscribe/platform/pkg/common/logger"
)

func newUploadRequest(t *testing.T, fieldName, filename string, contents []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(contents); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newRouter() *mux.Router {
	logger.Init()
	router := mux.NewRouter()
	NewHandler().Register(router)
	return router
}

func TestUploadImageEchoesBase64(t *testing.T) {
	router := newRouter()
	contents := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUploadRequest(t, "file", "scan.png", contents))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Filename != "scan.png" || resp.Size != len(contents) {
		t.Fatalf("resp = %+v", resp)
	}
	decoded, err := base64.StdEncoding.DecodeString(resp.Base64)
	if err != nil || !bytes.Equal(decoded, contents) {
		t.Fatalf("base64 round trip failed: %v", err)
	}
}

func TestUploadImageMissingFileField(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUploadRequest(t, "wrong", "scan.png", []byte("x")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadImageRejectsNonMultipart(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/upload-image", bytes.NewBufferString("not multipart"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
