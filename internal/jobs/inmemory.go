package jobs

import (
	"context"
	"sync"
	"time"

	"taqrir/models"
)

// InMemoryStore keeps jobs in a process-local map. Records live until
// the process exits.
type InMemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{jobs: make(map[string]Job)}
}

func (s *InMemoryStore) Create(_ context.Context, id, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.jobs[id] = Job{ID: id, Query: query, State: StatePending, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (s *InMemoryStore) Succeed(_ context.Context, id string, result models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.State != StatePending {
		return ErrTerminal
	}
	job.State = StateSuccess
	job.Result = &result
	job.UpdatedAt = time.Now()
	s.jobs[id] = job
	return nil
}

func (s *InMemoryStore) Fail(_ context.Context, id string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.State != StatePending {
		return ErrTerminal
	}
	job.State = StateFailure
	job.Error = cause.Error()
	job.UpdatedAt = time.Now()
	s.jobs[id] = job
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}
