package models

import (
	"time"
)

// Document is the metadata record for one uploaded file. The full extracted
// text is stored once at upload time and never mutated; deletion is a hard
// delete. Content is kept out of JSON responses.
type Document struct {
	ID         string    `db:"id" json:"id"`
	Filename   string    `db:"filename" json:"filename"`
	Content    string    `db:"content" json:"-"`
	ChunkCount int       `db:"chunk_count" json:"chunk_count"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Chunk is one fragment of a document's text, the unit of retrieval.
// DocumentName is denormalized from the parent Document so retrieval results
// can be labeled without a join. Similarity is only populated on chunks
// returned from a vector-index query (1 - cosine distance).
type Chunk struct {
	DocumentID   string
	DocumentName string
	Index        int
	Text         string
	Similarity   float64
}

// Source is one retrieved chunk as presented in a QA response.
type Source struct {
	DocumentID   string  `json:"documentId"`
	DocumentName string  `json:"documentName"`
	ChunkText    string  `json:"chunkText"`
	Similarity   float64 `json:"similarity"`
}

// Answer is the full result of one QA exchange. Never persisted.
type Answer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
}

// ServiceStatus is the outcome of pinging one external collaborator.
// Error is always present in JSON and null when the ping succeeded.
type ServiceStatus struct {
	Status  string  `json:"status"`
	Latency int64   `json:"latency"`
	Error   *string `json:"error"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthReport aggregates all collaborator pings. Overall is "healthy" only
// when every entry is healthy, otherwise "degraded".
type HealthReport struct {
	Overall   string                   `json:"overall"`
	Services  map[string]ServiceStatus `json:"services"`
	Timestamp time.Time                `json:"timestamp"`
}

func (r *HealthReport) Healthy() bool {
	return r.Overall == StatusHealthy
}
