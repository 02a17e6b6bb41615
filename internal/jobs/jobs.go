package jobs

import (
	"context"
	"errors"
	"time"

	"taqrir/models"
)

// State is the lifecycle phase of a report job. SUCCESS and FAILURE are
// terminal; a store must reject transitions out of them.
type State string

const (
	StatePending State = "PENDING"
	StateSuccess State = "SUCCESS"
	StateFailure State = "FAILURE"
)

var (
	ErrNotFound = errors.New("job not found")
	ErrTerminal = errors.New("job already in a terminal state")
)

// Job is the stored record for one report request.
type Job struct {
	ID        string         `json:"id"`
	Query     string         `json:"query"`
	State     State          `json:"state"`
	Result    *models.Report `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store persists job records for the lifetime of the process (or the
// configured TTL for the Redis implementation).
type Store interface {
	Create(ctx context.Context, id, query string) error
	Succeed(ctx context.Context, id string, result models.Report) error
	Fail(ctx context.Context, id string, cause error) error
	Get(ctx context.Context, id string) (Job, error)
}
