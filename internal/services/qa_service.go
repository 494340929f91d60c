package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"docqa/internal/core"
	"docqa/internal/models"
)

const (
	// fallbackNoContext is returned without a generation call when retrieval
	// comes back empty.
	fallbackNoContext = "I could not find any relevant information in the uploaded documents to answer your question. Please try uploading more documents or rephrasing your question."

	// fallbackNoAnswer replaces an empty completion from the model.
	fallbackNoAnswer = "Sorry, I was unable to generate an answer."
)

// QAService answers a question by retrieving the most similar chunks and
// prompting the generation model with them. Each call is stateless; no
// retries, no caching.
type QAService struct {
	index core.VectorIndex
	llm   core.LLMProvider
	topK  int
}

func NewQAService(index core.VectorIndex, llm core.LLMProvider, topK int) *QAService {
	if topK <= 0 {
		topK = 5
	}
	return &QAService{index: index, llm: llm, topK: topK}
}

// Ask validates the question, retrieves up to min(topK, corpus size) chunks,
// and generates an answer from them. Sources come back in retrieval order
// (descending similarity).
func (s *QAService) Ask(ctx context.Context, question string) (*models.Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, validationf("Please provide a valid question.")
	}
	if utf8.RuneCountInString(q) < 3 {
		return nil, validationf("Question is too short. Please be more specific.")
	}

	if s.index == nil {
		return nil, errors.New("vector index is not available")
	}
	if s.llm == nil {
		return nil, errors.New("generation service is not available")
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count indexed chunks: %w", err)
	}
	if count == 0 {
		return nil, validationf("No documents uploaded yet. Please upload some documents first before asking questions.")
	}

	limit := s.topK
	if count < limit {
		limit = count
	}

	chunks, err := s.index.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	if len(chunks) == 0 {
		return &models.Answer{Question: q, Answer: fallbackNoContext, Sources: []models.Source{}}, nil
	}

	answer, err := s.llm.Generate(ctx, buildPrompt(q, chunks))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		answer = fallbackNoAnswer
	}

	sources := make([]models.Source, len(chunks))
	for i, ch := range chunks {
		sources[i] = models.Source{
			DocumentID:   ch.DocumentID,
			DocumentName: ch.DocumentName,
			ChunkText:    ch.Text,
			Similarity:   ch.Similarity,
		}
	}

	return &models.Answer{Question: q, Answer: answer, Sources: sources}, nil
}

// buildPrompt labels each retrieved chunk with its source document and wraps
// the set in an instruction to answer strictly from the supplied context.
func buildPrompt(question string, chunks []models.Chunk) string {
	var ctxText strings.Builder
	for i, ch := range chunks {
		if i > 0 {
			ctxText.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&ctxText, "[Source %d - %s]:\n%s", i+1, ch.DocumentName, ch.Text)
	}

	return fmt.Sprintf(`You are a helpful Q&A assistant. Answer the user's question based ONLY on the provided context from their documents. If the context doesn't contain enough information to answer the question, say so clearly.

Be specific and cite which source(s) you're drawing from.

CONTEXT:
%s

QUESTION: %s

ANSWER:`, ctxText.String(), question)
}
