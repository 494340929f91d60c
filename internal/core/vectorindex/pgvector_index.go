package vectorindex

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"docqa/internal/config"
	"docqa/internal/core"
	"docqa/internal/models"
)

// PgvectorIndex stores chunk text plus embeddings in Postgres and serves
// cosine-similarity queries over them. Embedding happens inside the index on
// both the insert and the query path, so callers only ever hand over plain
// text; similarity is reported as 1 - cosine distance.
type PgvectorIndex struct {
	db       *sql.DB
	embedder core.EmbeddingProvider
}

func NewPgvectorIndex(ctx context.Context, cfg *config.Config, embedder core.EmbeddingProvider) (core.VectorIndex, error) {
	if cfg == nil {
		return nil, fmt.Errorf("vector index configuration is nil")
	}
	if cfg.VectorDatabaseURL == "" {
		return nil, fmt.Errorf("VECTOR_DATABASE_URL is empty")
	}
	if embedder == nil {
		return nil, fmt.Errorf("vector index needs an embedding provider")
	}

	db, err := sql.Open("pgx", cfg.VectorDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping vector db: %w", err)
	}

	if err := ensureSchema(ctx, db, cfg.EmbedDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("vector schema: %w", err)
	}

	return &PgvectorIndex{db: db, embedder: embedder}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, dim int) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if _, err := db.ExecContext(ctxBoot, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create extension: %w", err)
	}

	// Embedding dimension is fixed at table creation; changing EMBED_DIM
	// later requires dropping the table and reindexing every document.
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS document_chunks (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL,
			document_name TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			chunk_text TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, dim)
	if _, err := db.ExecContext(ctxBoot, ddl); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}

	if _, err := db.ExecContext(ctxBoot,
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id ON document_chunks (document_id)`); err != nil {
		return fmt.Errorf("create document_id index: %w", err)
	}
	return nil
}

func (x *PgvectorIndex) Close() error {
	if x.db != nil {
		return x.db.Close()
	}
	return nil
}

// AddChunks embeds every chunk text in one batch and inserts the rows in a
// single transaction.
func (x *PgvectorIndex) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	vecs, err := x.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(chunks))
	}

	tx, err := x.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO document_chunks
			(id, document_id, document_name, chunk_index, chunk_text, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), ch.DocumentID, ch.DocumentName, ch.Index, ch.Text, pgvector.NewVector(vecs[i]),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Query embeds the question and returns the limit nearest chunks by cosine
// distance, nearest first.
func (x *PgvectorIndex) Query(ctx context.Context, question string, limit int) ([]models.Chunk, error) {
	vecs, err := x.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	const q = `
		SELECT document_id, document_name, chunk_index, chunk_text, embedding <=> $1 AS distance
		FROM document_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := x.db.QueryContext(ctx, q, pgvector.NewVector(vecs[0]), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Chunk
	for rows.Next() {
		var (
			ch       models.Chunk
			distance float64
		)
		if err := rows.Scan(&ch.DocumentID, &ch.DocumentName, &ch.Index, &ch.Text, &distance); err != nil {
			return nil, err
		}
		ch.Similarity = 1 - distance
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (x *PgvectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := x.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	return err
}

func (x *PgvectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&n)
	return n, err
}

func (x *PgvectorIndex) Ping(ctx context.Context) error {
	var one int
	return x.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

var _ core.VectorIndex = (*PgvectorIndex)(nil)
