package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/core"
	"gwi.com/dalal-chat/internal/service"
)

const maxUploadMemory = 32 << 20

type APIHandler struct {
	documents *core.DocumentService
	logger    *zap.Logger
}

func NewAPIHandler(ds *core.DocumentService, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{documents: ds, logger: logger}
}

// errorDetail is the validation error body clients receive on 422.
type errorDetail struct {
	Detail string `json:"detail"`
}

type queryResponse struct {
	Answer         string   `json:"answer,omitempty"`
	Source         string   `json:"source,omitempty"`
	Error          string   `json:"error,omitempty"`
	ProcessedFiles []string `json:"processed_files,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.documents.Status()
	if err != nil {
		h.logger.Error("Error reading status", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: "Failed to read status"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorDetail{Detail: "Invalid multipart body: " + err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[service.UploadField]
	if len(headers) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorDetail{Detail: "files field required"})
		return
	}

	files := make([]core.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "Failed to read " + fh.Filename})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "Failed to read " + fh.Filename})
			return
		}
		files = append(files, core.UploadedFile{Filename: fh.Filename, Content: content})
	}

	names, err := h.documents.Upload(files)
	if err != nil {
		h.logger.Error("Error registering upload", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: "Failed to store upload"})
		return
	}

	writeJSON(w, http.StatusOK, service.UploadResponse{
		Message: processingMessage(len(names)),
		Files:   &names,
	})
}

func (h *APIHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var req service.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorDetail{Detail: "Invalid request body: " + err.Error()})
		return
	}

	reply, files, err := h.documents.Query(req.Query)
	if err != nil {
		h.logger.Error("Error answering query", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: "Failed to answer query"})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:         reply.Answer,
		Source:         reply.Source,
		Error:          reply.Error,
		ProcessedFiles: files,
	})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func processingMessage(n int) string {
	return fmt.Sprintf("Processing %d PDF files", n)
}
