package app

import (
	"context"
	"io"
	"log"
	"time"

	"docqa/internal/config"
	"docqa/internal/core"
	db "docqa/internal/core/database"
	"docqa/internal/core/extract"
	"docqa/internal/core/llm"
	objectclient "docqa/internal/core/object-client"
	"docqa/internal/core/vectorindex"
	"docqa/internal/services"
)

// App owns the long-lived collaborator handles. Each one is established once
// at startup and reused across requests. A collaborator that fails to
// initialize is logged as a warning and left nil; the process keeps serving
// in a degraded mode and the services report the gap per request.
type App struct {
	DB     core.DbClient
	Index  core.VectorIndex
	Server *Server

	closers []io.Closer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	a := &App{}

	if dbClient, err := db.NewDatabaseClient(appCtx, cfg); err != nil {
		log.Printf("WARN: database initialization failed, document features may be limited: %v", err)
	} else {
		log.Println("Database initialized and ready.")
		a.DB = dbClient
		a.closers = append(a.closers, dbClient)
	}

	var embedder core.EmbeddingProvider
	if geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel); err != nil {
		log.Printf("WARN: embedder initialization failed, indexing and search may be limited: %v", err)
	} else {
		embedder = geminiEmbedder
		a.closers = append(a.closers, geminiEmbedder)
	}

	if embedder != nil {
		if index, err := vectorindex.NewPgvectorIndex(appCtx, cfg, embedder); err != nil {
			log.Printf("WARN: vector index initialization failed, upload and search may be limited: %v", err)
		} else {
			log.Println("Vector index initialized and ready.")
			a.Index = index
			a.closers = append(a.closers, index)
		}
	}

	var llmProvider core.LLMProvider
	if geminiLLM, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel); err != nil {
		log.Printf("WARN: generation client initialization failed, answers may be limited: %v", err)
	} else {
		llmProvider = geminiLLM
		a.closers = append(a.closers, geminiLLM)
	}

	var archive core.ObjectClient
	if cfg.ArchiveEnabled() {
		if objClient, err := objectclient.NewS3Client(appCtx, cfg); err != nil {
			log.Printf("WARN: object storage initialization failed, uploads will not be archived: %v", err)
		} else {
			archive = objClient
		}
	}

	extractor := extract.NewDocconvExtractor()
	docService := services.NewDocumentService(a.DB, a.Index, extractor, archive, cfg)
	qaService := services.NewQAService(a.Index, llmProvider, cfg.TopK)
	healthService := services.NewHealthService(a.DB, a.Index, llmProvider)

	a.Server = NewServer(cfg, docService, qaService, healthService)

	return a, nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}
