package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docqa/internal/models"
)

// DocumentStore is the slice of the document service the handler needs.
type DocumentStore interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	Delete(ctx context.Context, id string) (filename string, err error)
}

type DocumentHandler struct {
	docs           DocumentStore
	maxUploadBytes int64
}

func NewDocumentHandler(docs DocumentStore, maxUploadMB int) *DocumentHandler {
	return &DocumentHandler{docs: docs, maxUploadBytes: int64(maxUploadMB) << 20}
}

type uploadResponse struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunkCount"`
	Message    string `json:"message"`
}

type listResponse struct {
	Documents []models.Document `json:"documents"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// UploadDocument accepts one multipart file under the "file" field and runs
// the full ingestion path synchronously.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("File is too large. Maximum size is %dMB.", h.maxUploadBytes>>20))
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded. Please select a file.")
		return
	}
	defer file.Close()

	doc, err := h.docs.Upload(r.Context(), header.Filename, file)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, uploadResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		ChunkCount: doc.ChunkCount,
		Message:    fmt.Sprintf("Document %q uploaded and indexed successfully (%d chunks).", doc.Filename, doc.ChunkCount),
	})
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	respondJSON(w, http.StatusOK, listResponse{Documents: docs})
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filename, err := h.docs.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Document %q deleted successfully.", filename),
	})
}
