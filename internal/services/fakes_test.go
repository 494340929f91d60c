package services

import (
	"context"
	"io"
	"os"
	"sort"

	"docqa/internal/models"
)

type fakeDB struct {
	docs      map[string]models.Document
	createErr error
	listErr   error
	deleteErr error
	pingErr   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{docs: map[string]models.Document{}}
}

func (f *fakeDB) CreateDocument(ctx context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeDB) ListDocuments(ctx context.Context) ([]models.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (f *fakeDB) DeleteDocument(ctx context.Context, id string) (string, bool, error) {
	if f.deleteErr != nil {
		return "", false, f.deleteErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return "", false, nil
	}
	delete(f.docs, id)
	return doc.Filename, true, nil
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeDB) Close() error                   { return nil }

type fakeIndex struct {
	chunks        []models.Chunk
	addErr        error
	queryErr      error
	deleteErr     error
	countErr      error
	pingErr       error
	countOverride *int

	queryResult  []models.Chunk
	queried      string
	queriedLimit int
	countCalls   int
	queryCalls   int
}

func (f *fakeIndex) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, question string, limit int) ([]models.Chunk, error) {
	f.queryCalls++
	f.queried = question
	f.queriedLimit = limit
	return f.queryResult, f.queryErr
}

func (f *fakeIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.chunks[:0]
	for _, ch := range f.chunks {
		if ch.DocumentID != documentID {
			kept = append(kept, ch)
		}
	}
	f.chunks = kept
	return nil
}

func (f *fakeIndex) Count(ctx context.Context) (int, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	if f.countOverride != nil {
		return *f.countOverride, nil
	}
	return len(f.chunks), nil
}

func (f *fakeIndex) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeIndex) Close() error                   { return nil }

type fakeLLM struct {
	answer  string
	err     error
	pingErr error

	prompt string
	calls  int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.answer, f.err
}

func (f *fakeLLM) Ping(ctx context.Context) error { return f.pingErr }

// fakeExtractor returns canned text, or reads the staged file back when
// readStaged is set so tests can verify the staging path.
type fakeExtractor struct {
	text       string
	err        error
	readStaged bool
}

func (f *fakeExtractor) ExtractText(ctx context.Context, path, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.readStaged {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return f.text, nil
}

type fakeArchive struct {
	uploadErr error
	deleteErr error

	uploaded []string
	deleted  []string
}

func (f *fakeArchive) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = append(f.uploaded, bucket+"/"+key)
	return "https://" + bucket + ".example.com/" + key, nil
}

func (f *fakeArchive) DeleteFile(ctx context.Context, bucket, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, bucket+"/"+key)
	return nil
}

func (f *fakeArchive) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	return nil, nil
}
