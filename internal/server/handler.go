package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/shipbill-extractor/internal/export"
	"github.com/joseph-ayodele/shipbill-extractor/internal/extract"
	"github.com/joseph-ayodele/shipbill-extractor/internal/pipeline"
)

// Handler serves the upload boundary: multipart PDF uploads in, an ephemeral
// result table out (as JSON or as a spreadsheet download). Nothing persists
// across requests.
type Handler struct {
	logger      *slog.Logger
	processor   *pipeline.Processor
	exporter    *export.Service
	maxUploadMB int
}

func NewHandler(logger *slog.Logger, proc *pipeline.Processor, exp *export.Service, maxUploadMB int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &Handler{logger: logger, processor: proc, exporter: exp, maxUploadMB: maxUploadMB}
}

// Extract processes uploaded shipping bills and responds with the result
// table and per-document diagnostics as JSON.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	docs, ok := h.readUploads(w, r)
	if !ok {
		return
	}
	res, err := h.processor.ProcessBatch(r.Context(), docs)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Warn("server.extract.encode_error", "error", err)
	}
}

// ExtractXLSX processes uploaded shipping bills and responds with the result
// table as a downloadable workbook.
func (h *Handler) ExtractXLSX(w http.ResponseWriter, r *http.Request) {
	docs, ok := h.readUploads(w, r)
	if !ok {
		return
	}
	res, err := h.processor.ProcessBatch(r.Context(), docs)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	xlsx, err := h.exporter.BuildXLSX(res.Records)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "build workbook: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DefaultFilename))
	if _, err := w.Write(xlsx); err != nil {
		h.logger.Warn("server.extract_xlsx.write_error", "error", err)
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// readUploads parses the multipart form and reads each uploaded PDF into a
// Document, preserving upload order. It writes the HTTP error itself and
// returns ok=false when the request is unusable.
func (h *Handler) readUploads(w http.ResponseWriter, r *http.Request) ([]extract.Document, bool) {
	if err := r.ParseMultipartForm(int64(h.maxUploadMB) << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, "parse multipart form: "+err.Error())
		return nil, false
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.writeError(w, http.StatusBadRequest, `no files uploaded; use multipart field "files"`)
		return nil, false
	}

	docs := make([]extract.Document, 0, len(files))
	for _, fh := range files {
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q: only PDF uploads are accepted", ext))
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "open upload "+fh.Filename+": "+err.Error())
			return nil, false
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "read upload "+fh.Filename+": "+err.Error())
			return nil, false
		}
		docs = append(docs, extract.Document{Source: fh.Filename, Content: content})
	}
	return docs, true
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.logger.Warn("server.request_error", "status", status, "message", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
