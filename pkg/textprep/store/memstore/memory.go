package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// Store is an in-memory implementation of store.Store for tests and
// one-shot runs that do not need a ledger file.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
	docs map[string]map[string]store.DocResult // run → path → result
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs: make(map[string]store.Run),
		docs: make(map[string]map[string]store.DocResult),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

func (s *Store) CreateRun(ctx context.Context, r store.Run) (store.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = store.NewRunID()
	}
	if _, dup := s.runs[r.ID]; dup {
		return store.Run{}, fmt.Errorf("create run: duplicate id %s", r.ID)
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	r.StartedAt = r.StartedAt.UTC()
	s.runs[r.ID] = r
	s.docs[r.ID] = make(map[string]store.DocResult)
	return r, nil
}

func (s *Store) FinishRun(ctx context.Context, id string, finishedAt time.Time, docs, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	r.FinishedAt = finishedAt.UTC()
	r.Docs = docs
	r.Failed = failed
	s.runs[id] = r
	return nil
}

func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *Store) RecordDoc(ctx context.Context, d store.DocResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.docs[d.RunID]
	if !ok {
		return fmt.Errorf("run %s: %w", d.RunID, internalerr.ErrNotFound)
	}
	docs[d.Path] = copyResult(d)
	return nil
}

func (s *Store) DocResults(ctx context.Context, runID string) ([]store.DocResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[runID]
	results := make([]store.DocResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, copyResult(d))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

func copyResult(d store.DocResult) store.DocResult {
	if d.Counts != nil {
		counts := make(map[string]int, len(d.Counts))
		for k, v := range d.Counts {
			counts[k] = v
		}
		d.Counts = counts
	}
	return d
}
