package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/config"
	"docqa/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		BucketName:   "docqa-archive",
	}
}

func TestUpload_RejectsDisallowedExtension(t *testing.T) {
	db := newFakeDB()
	index := &fakeIndex{}
	svc := NewDocumentService(db, index, &fakeExtractor{}, nil, testConfig())

	_, err := svc.Upload(context.Background(), "malware.exe", strings.NewReader("payload"))

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), ".txt")
	assert.Empty(t, db.docs)
	assert.Empty(t, index.chunks)
}

func TestUpload_RejectsEmptyContent(t *testing.T) {
	db := newFakeDB()
	index := &fakeIndex{}
	svc := NewDocumentService(db, index, &fakeExtractor{text: "   \n\t  "}, nil, testConfig())

	_, err := svc.Upload(context.Background(), "empty.txt", strings.NewReader(""))

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, db.docs)
	assert.Empty(t, index.chunks)
}

func TestUpload_RejectsUnreadableFile(t *testing.T) {
	db := newFakeDB()
	svc := NewDocumentService(db, &fakeIndex{}, &fakeExtractor{err: errors.New("bad pdf header")}, nil, testConfig())

	_, err := svc.Upload(context.Background(), "broken.pdf", strings.NewReader("not a pdf"))

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "bad pdf header")
	assert.Empty(t, db.docs)
}

func TestUpload_StagesPersistsAndIndexes(t *testing.T) {
	db := newFakeDB()
	index := &fakeIndex{}
	svc := NewDocumentService(db, index, &fakeExtractor{readStaged: true}, nil, testConfig())

	content := "First paragraph of the report.\n\nSecond paragraph with more detail."
	doc, err := svc.Upload(context.Background(), "report.txt", strings.NewReader(content))

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "report.txt", doc.Filename)
	assert.Equal(t, content, doc.Content)
	assert.Equal(t, 1, doc.ChunkCount)
	assert.False(t, doc.UploadedAt.IsZero())

	stored, ok := db.docs[doc.ID]
	require.True(t, ok)
	assert.Equal(t, doc.ChunkCount, stored.ChunkCount)

	require.Len(t, index.chunks, 1)
	ch := index.chunks[0]
	assert.Equal(t, doc.ID, ch.DocumentID)
	assert.Equal(t, "report.txt", ch.DocumentName)
	assert.Equal(t, 0, ch.Index)
	assert.Equal(t, content, ch.Text)
}

func TestUpload_ChunkIndicesAreOrdinal(t *testing.T) {
	db := newFakeDB()
	index := &fakeIndex{}

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString(strings.Repeat("word ", 60))
		sb.WriteString("\n\n")
	}
	svc := NewDocumentService(db, index, &fakeExtractor{text: sb.String()}, nil, testConfig())

	doc, err := svc.Upload(context.Background(), "big.md", strings.NewReader("raw"))
	require.NoError(t, err)
	require.Greater(t, doc.ChunkCount, 1)
	require.Len(t, index.chunks, doc.ChunkCount)
	for i, ch := range index.chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, doc.ID, ch.DocumentID)
	}
}

func TestUpload_IndexFailureLeavesDocumentBehind(t *testing.T) {
	db := newFakeDB()
	index := &fakeIndex{addErr: errors.New("index unreachable")}
	svc := NewDocumentService(db, index, &fakeExtractor{text: "some real content"}, nil, testConfig())

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("raw"))

	require.Error(t, err)
	assert.False(t, IsValidation(err))
	// The metadata write is not rolled back: the row stays, unsearchable.
	assert.Len(t, db.docs, 1)
}

func TestUpload_MetadataFailureCreatesNothing(t *testing.T) {
	db := newFakeDB()
	db.createErr = errors.New("db down")
	index := &fakeIndex{}
	svc := NewDocumentService(db, index, &fakeExtractor{text: "content"}, nil, testConfig())

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("raw"))

	require.Error(t, err)
	assert.Empty(t, index.chunks)
}

func TestUpload_ArchivesWhenConfigured(t *testing.T) {
	db := newFakeDB()
	archive := &fakeArchive{}
	svc := NewDocumentService(db, &fakeIndex{}, &fakeExtractor{text: "content"}, archive, testConfig())

	doc, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("raw"))
	require.NoError(t, err)

	require.Len(t, archive.uploaded, 1)
	assert.Equal(t, "docqa-archive/"+doc.ID+"/notes.txt", archive.uploaded[0])
}

func TestUpload_ArchiveFailureDoesNotFailUpload(t *testing.T) {
	db := newFakeDB()
	archive := &fakeArchive{uploadErr: errors.New("s3 down")}
	svc := NewDocumentService(db, &fakeIndex{}, &fakeExtractor{text: "content"}, archive, testConfig())

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("raw"))
	assert.NoError(t, err)
	assert.Len(t, db.docs, 1)
}

func TestUpload_WithoutDatabase(t *testing.T) {
	svc := NewDocumentService(nil, &fakeIndex{}, &fakeExtractor{text: "content"}, nil, testConfig())

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("raw"))
	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewDocumentService(newFakeDB(), &fakeIndex{}, &fakeExtractor{}, nil, testConfig())

	_, err := svc.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDelete_RemovesDocumentAndChunks(t *testing.T) {
	db := newFakeDB()
	index := &fakeIndex{}
	svc := NewDocumentService(db, index, &fakeExtractor{text: "content"}, nil, testConfig())

	doc, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("raw"))
	require.NoError(t, err)
	require.NotEmpty(t, index.chunks)

	filename, err := svc.Delete(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", filename)
	assert.Empty(t, db.docs)
	assert.Empty(t, index.chunks)

	docs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDelete_IndexFailureIsBestEffort(t *testing.T) {
	db := newFakeDB()
	db.docs["doc-1"] = models.Document{ID: "doc-1", Filename: "keep.txt"}
	index := &fakeIndex{deleteErr: errors.New("index unreachable")}
	svc := NewDocumentService(db, index, &fakeExtractor{}, nil, testConfig())

	filename, err := svc.Delete(context.Background(), "doc-1")

	// Metadata is authoritative: the delete still succeeds.
	require.NoError(t, err)
	assert.Equal(t, "keep.txt", filename)
	assert.Empty(t, db.docs)
}

func TestDelete_RemovesArchivedUpload(t *testing.T) {
	db := newFakeDB()
	db.docs["doc-1"] = models.Document{ID: "doc-1", Filename: "old.txt"}
	archive := &fakeArchive{}
	svc := NewDocumentService(db, &fakeIndex{}, &fakeExtractor{}, archive, testConfig())

	_, err := svc.Delete(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, archive.deleted, 1)
	assert.Equal(t, "docqa-archive/doc-1/old.txt", archive.deleted[0])
}
