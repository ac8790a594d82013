package memory

import (
	"context"
	"fmt"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
)

type stagedDeliveries struct {
	key        inningsKey
	deliveries []model.Delivery
}

// unitOfWork stages writes until Commit. The match id is reserved on insert.
type unitOfWork struct {
	store      *Store
	closed     bool
	matchID    int64
	match      *model.Match
	players    []model.Player
	innings    []model.Innings
	deliveries []stagedDeliveries
}

func (u *unitOfWork) InsertMatch(_ context.Context, m model.Match) (int64, error) {
	if u.closed {
		return 0, repository.ErrClosed
	}
	if u.match != nil {
		return 0, fmt.Errorf("%w: unit of work already holds %s", repository.ErrPersistence, u.match.SourceFile)
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySource[m.SourceFile]; ok {
		return 0, fmt.Errorf("%w: match %s", repository.ErrDuplicate, m.SourceFile)
	}
	s.nextID++
	u.matchID = s.nextID
	u.match = &m
	return u.matchID, nil
}

func (u *unitOfWork) InsertPlayers(_ context.Context, players []model.Player) error {
	if u.closed {
		return repository.ErrClosed
	}
	u.players = append(u.players, players...)
	return nil
}

func (u *unitOfWork) InsertInnings(_ context.Context, matchID int64, innings []model.Innings) error {
	if u.closed {
		return repository.ErrClosed
	}
	if err := u.owns(matchID); err != nil {
		return err
	}
	for i := range innings {
		for j := range u.innings {
			if u.innings[j].Number == innings[i].Number {
				return fmt.Errorf("%w: innings %d of match %d", repository.ErrDuplicate, innings[i].Number, matchID)
			}
		}
		inn := innings[i]
		inn.Deliveries = nil
		u.innings = append(u.innings, inn)
	}
	return nil
}

func (u *unitOfWork) InsertDeliveries(_ context.Context, matchID int64, inningsNumber int, deliveries []model.Delivery) error {
	if u.closed {
		return repository.ErrClosed
	}
	if err := u.owns(matchID); err != nil {
		return err
	}
	found := false
	for i := range u.innings {
		if u.innings[i].Number == inningsNumber {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: deliveries for unknown innings %d", repository.ErrPersistence, inningsNumber)
	}
	u.deliveries = append(u.deliveries, stagedDeliveries{
		key:        inningsKey{matchID, inningsNumber},
		deliveries: append([]model.Delivery(nil), deliveries...),
	})
	return nil
}

func (u *unitOfWork) Commit(_ context.Context) error {
	if u.closed {
		return repository.ErrClosed
	}
	u.closed = true
	if u.match == nil {
		return nil
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySource[u.match.SourceFile]; ok {
		return fmt.Errorf("%w: match %s", repository.ErrDuplicate, u.match.SourceFile)
	}
	s.matches[u.matchID] = *u.match
	s.bySource[u.match.SourceFile] = u.matchID
	for _, p := range u.players {
		s.players[p] = struct{}{}
	}
	for _, inn := range u.innings {
		s.innings[inningsKey{u.matchID, inn.Number}] = inn
	}
	for _, sd := range u.deliveries {
		s.deliveries[sd.key] = append(s.deliveries[sd.key], sd.deliveries...)
	}
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	u.closed = true
	return nil
}

func (u *unitOfWork) owns(matchID int64) error {
	if u.match == nil || matchID != u.matchID {
		return fmt.Errorf("%w: match %d not inserted in this unit of work", repository.ErrPersistence, matchID)
	}
	return nil
}
