package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"docqa/internal/core"
	"docqa/internal/models"
)

// HealthService pings each external collaborator and aggregates the results.
// Pings run independently; one collaborator failing never stops the others
// from being checked.
type HealthService struct {
	db    core.DbClient
	index core.VectorIndex
	llm   core.LLMProvider
}

func NewHealthService(db core.DbClient, index core.VectorIndex, llm core.LLMProvider) *HealthService {
	return &HealthService{db: db, index: index, llm: llm}
}

// Check reports per-collaborator status and latency, plus an entry for the
// service itself. Overall is "healthy" only when every entry is.
func (s *HealthService) Check(ctx context.Context) *models.HealthReport {
	var mu sync.Mutex
	statuses := map[string]models.ServiceStatus{
		"backend": {Status: models.StatusHealthy, Latency: 0},
	}

	checks := []struct {
		name string
		ping func(context.Context) error
	}{
		{"database", s.pingDatabase},
		{"vectorindex", s.pingIndex},
		{"llm", s.pingLLM},
	}

	var g errgroup.Group
	for _, c := range checks {
		g.Go(func() error {
			start := time.Now()
			err := c.ping(ctx)
			st := models.ServiceStatus{
				Status:  models.StatusHealthy,
				Latency: time.Since(start).Milliseconds(),
			}
			if err != nil {
				msg := err.Error()
				st.Status = models.StatusUnhealthy
				st.Error = &msg
			}
			mu.Lock()
			statuses[c.name] = st
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := models.StatusHealthy
	for _, st := range statuses {
		if st.Status != models.StatusHealthy {
			overall = "degraded"
			break
		}
	}

	return &models.HealthReport{
		Overall:   overall,
		Services:  statuses,
		Timestamp: time.Now().UTC(),
	}
}

func (s *HealthService) pingDatabase(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database client not initialized")
	}
	return s.db.Ping(ctx)
}

func (s *HealthService) pingIndex(ctx context.Context) error {
	if s.index == nil {
		return errors.New("vector index not initialized")
	}
	return s.index.Ping(ctx)
}

func (s *HealthService) pingLLM(ctx context.Context) error {
	if s.llm == nil {
		return errors.New("generation client not initialized")
	}
	return s.llm.Ping(ctx)
}
