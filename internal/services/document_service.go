package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa/internal/config"
	"docqa/internal/core"
	"docqa/internal/core/chunker"
	"docqa/internal/core/extract"
	"docqa/internal/models"
)

// DocumentService owns the upload and deletion lifecycle: stage, extract,
// chunk, persist metadata, index chunks. The metadata store is authoritative;
// index writes and the optional S3 archive are secondary.
type DocumentService struct {
	db        core.DbClient
	index     core.VectorIndex
	extractor extract.Extractor
	archive   core.ObjectClient
	cfg       *config.Config
}

// NewDocumentService wires the collaborators. archive may be nil, which
// disables raw-upload archival.
func NewDocumentService(db core.DbClient, index core.VectorIndex, extractor extract.Extractor, archive core.ObjectClient, cfg *config.Config) *DocumentService {
	return &DocumentService{db: db, index: index, extractor: extractor, archive: archive, cfg: cfg}
}

// Upload ingests one file: stages it to disk, extracts its text, chunks it,
// persists the document record, then indexes every chunk. The staged file is
// removed regardless of outcome. If indexing fails after the metadata write
// succeeded, the document row stays behind unsearchable and the error is
// surfaced; there is no compensating delete.
func (s *DocumentService) Upload(ctx context.Context, filename string, file io.Reader) (*models.Document, error) {
	if s.db == nil {
		return nil, errors.New("document store is not available")
	}
	if s.index == nil {
		return nil, errors.New("vector index is not available")
	}

	if !extract.AllowedExtension(filename) {
		return nil, validationf("Only these files are allowed: %s", strings.Join(extract.AllowedExtensions, ", "))
	}

	stagedPath, err := stageUpload(file)
	if err != nil {
		return nil, err
	}
	defer os.Remove(stagedPath)

	content, err := s.extractor.ExtractText(ctx, stagedPath, filename)
	if err != nil {
		return nil, validationf("Could not read file: %v", err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, validationf("The uploaded file is empty or has no extractable text.")
	}

	fragments := chunker.Split(content, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	doc := &models.Document{
		ID:         uuid.NewString(),
		Filename:   filepath.Base(filename),
		Content:    content,
		ChunkCount: len(fragments),
		UploadedAt: time.Now().UTC(),
	}

	if err := s.db.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document metadata: %w", err)
	}

	chunks := make([]models.Chunk, len(fragments))
	for i, f := range fragments {
		chunks[i] = models.Chunk{
			DocumentID:   doc.ID,
			DocumentName: doc.Filename,
			Index:        f.Index,
			Text:         f.Text,
		}
	}
	if err := s.index.AddChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("index document chunks: %w", err)
	}

	s.archiveUpload(ctx, doc, stagedPath)

	return doc, nil
}

// List returns every document, newest upload first.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	if s.db == nil {
		return nil, errors.New("document store is not available")
	}
	return s.db.ListDocuments(ctx)
}

// Delete removes the document record and then its indexed chunks. Index
// cleanup is best effort: a failure there is logged, the transient orphans
// stay behind, and the delete still reports success once the authoritative
// metadata row is gone.
func (s *DocumentService) Delete(ctx context.Context, id string) (string, error) {
	if s.db == nil {
		return "", errors.New("document store is not available")
	}

	filename, found, err := s.db.DeleteDocument(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete document: %w", err)
	}
	if !found {
		return "", ErrDocumentNotFound
	}

	if s.index != nil {
		if err := s.index.DeleteByDocument(ctx, id); err != nil {
			log.Printf("WARN: chunk cleanup failed for document %s: %v", id, err)
		}
	}

	if s.archive != nil {
		if err := s.archive.DeleteFile(ctx, s.cfg.BucketName, archiveKey(id, filename)); err != nil {
			log.Printf("WARN: archive cleanup failed for document %s: %v", id, err)
		}
	}

	return filename, nil
}

// archiveUpload copies the staged original to S3 when an archive client is
// configured. Failures are logged and never affect the upload result.
func (s *DocumentService) archiveUpload(ctx context.Context, doc *models.Document, stagedPath string) {
	if s.archive == nil {
		return
	}

	f, err := os.Open(stagedPath)
	if err != nil {
		log.Printf("WARN: archive skipped for document %s: %v", doc.ID, err)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(doc.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.archive.UploadFile(ctx, s.cfg.BucketName, archiveKey(doc.ID, doc.Filename), f, contentType); err != nil {
		log.Printf("WARN: archive upload failed for document %s: %v", doc.ID, err)
	}
}

func archiveKey(docID, filename string) string {
	return docID + "/" + filename
}

// stageUpload spools the request body to a temp file so extraction can work
// from disk; docconv needs a seekable file for PDFs.
func stageUpload(file io.Reader) (string, error) {
	staged, err := os.CreateTemp("", "docqa-upload-*")
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		os.Remove(staged.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := staged.Close(); err != nil {
		os.Remove(staged.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return staged.Name(), nil
}
