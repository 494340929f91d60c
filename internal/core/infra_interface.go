package core

import (
	"context"
	"io"

	"docqa/internal/models"
)

// DbClient defines all persistence operations the services need for document
// metadata. It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// DeleteDocument removes the row and returns the stored filename.
	// found is false when no row matched; that is not an error.
	DeleteDocument(ctx context.Context, id string) (filename string, found bool, err error)

	Ping(ctx context.Context) error
	Close() error
}

// VectorIndex stores document chunks and answers similarity queries over them.
// Implementations own the embedding step: callers hand over plain text on both
// the write and the query path.
type VectorIndex interface {
	// AddChunks indexes every chunk, embedding the text as part of the insert.
	AddChunks(ctx context.Context, chunks []models.Chunk) error

	// Query returns up to limit chunks ordered by descending similarity,
	// with Similarity populated as 1 - distance.
	Query(ctx context.Context, question string, limit int) ([]models.Chunk, error)

	// DeleteByDocument removes every chunk belonging to the document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count reports the total number of indexed chunks across all documents.
	Count(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so you can replace AWS with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
