// Package memory implements the scorecard store in process. Writes are staged
// per unit of work and applied under one lock on commit.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
)

type inningsKey struct {
	matchID int64
	number  int
}

// Store is a repository.Store held in memory.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	matches    map[int64]model.Match
	bySource   map[string]int64
	players    map[model.Player]struct{}
	innings    map[inningsKey]model.Innings
	deliveries map[inningsKey][]model.Delivery
	runs       []model.Run
}

// New returns an empty store.
func New() *Store {
	return &Store{
		matches:    make(map[int64]model.Match),
		bySource:   make(map[string]int64),
		players:    make(map[model.Player]struct{}),
		innings:    make(map[inningsKey]model.Innings),
		deliveries: make(map[inningsKey][]model.Delivery),
	}
}

func (s *Store) MatchExists(_ context.Context, sourceFile string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bySource[sourceFile]
	return ok, nil
}

func (s *Store) Begin(_ context.Context) (repository.UnitOfWork, error) {
	return &unitOfWork{store: s}, nil
}

func (s *Store) Stats(_ context.Context) (repository.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := repository.Stats{
		Matches: int64(len(s.matches)),
		Innings: int64(len(s.innings)),
		Players: int64(len(s.players)),
	}
	for _, ds := range s.deliveries {
		st.Deliveries += int64(len(ds))
	}
	return st, nil
}

func (s *Store) EnsureSchema(_ context.Context) error { return nil }

func (s *Store) RecordRun(_ context.Context, run model.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.runs {
		if r.ID == run.ID {
			return fmt.Errorf("%w: run %s", repository.ErrDuplicate, run.ID)
		}
	}
	s.runs = append(s.runs, run)
	return nil
}

func (s *Store) Close() error { return nil }

// Match returns the stored match with the natural key.
func (s *Store) Match(sourceFile string) (model.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySource[sourceFile]
	if !ok {
		return model.Match{}, false
	}
	return s.matches[id], true
}

// Deliveries returns the stored deliveries of one innings in write order.
func (s *Store) Deliveries(matchID int64, inningsNumber int) []model.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Delivery(nil), s.deliveries[inningsKey{matchID, inningsNumber}]...)
}

// Runs returns the recorded runs.
func (s *Store) Runs() []model.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Run(nil), s.runs...)
}
