// Package store records corpus runs and their per-document results.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the run ledger.
type Store interface {
	Close() error

	// CreateRun persists r. An empty ID is replaced with a new ULID and a
	// zero StartedAt with the current time.
	CreateRun(ctx context.Context, r Run) (Run, error)
	// FinishRun stamps the end time and document totals of a run.
	FinishRun(ctx context.Context, id string, finishedAt time.Time, docs, failed int) error
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns runs newest first. limit <= 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	RecordDoc(ctx context.Context, d DocResult) error
	// DocResults returns the results of a run ordered by path.
	DocResults(ctx context.Context, runID string) ([]DocResult, error)
}

// Run is one invocation of the corpus cleaner.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Source     string
	ConfigYAML string
	Docs       int
	Failed     int
}

// Finished reports whether FinishRun was called.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// DocResult is the outcome of cleaning one document.
type DocResult struct {
	RunID            string
	Path             string
	OriginalLen      int
	CleanLen         int
	SpellChangeRatio float64
	Counts           map[string]int
	Error            string
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new ULID. IDs sort by creation time.
func NewRunID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Now(), idEntropy).String()
}
