// Package service sequences extraction and persistence of scorecards, one
// isolated unit of work per source record.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/adapters/source"
	"github.com/okian/scorecard/internal/domain/dedupe"
	"github.com/okian/scorecard/internal/domain/extract"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/pkg/logger"
	"github.com/okian/scorecard/pkg/metrics"
)

const defaultDedupeSize = 100_000

// errMatchTaken marks a natural key committed by another writer after the existence check.
var errMatchTaken = errors.New("match already stored")

// Loader loads documents into a store sequentially.
type Loader struct {
	store      repository.Store
	deduper    dedupe.Deduper
	dedupeSize int
	now        func() time.Time
	logger     logger.Logger
}

// New constructs a Loader writing to store.
func New(store repository.Store, opts ...Option) *Loader {
	l := &Loader{
		store:      store,
		dedupeSize: defaultDedupeSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("loader")
	}
	l.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(l.dedupeSize))
	return l
}

// Run loads every document from docs until the channel closes or ctx is done.
// A failing record never stops the run.
func (l *Loader) Run(ctx context.Context, docs <-chan source.Document) Summary {
	start := l.now()
	var sum Summary
	for {
		if ctx.Err() != nil {
			l.logger.Warn(ctx, "run cancelled", logger.Int("attempted", sum.Attempted))
			break
		}
		var (
			doc source.Document
			ok  bool
		)
		select {
		case <-ctx.Done():
			continue
		case doc, ok = <-docs:
		}
		if !ok {
			break
		}
		sum.Add(l.Load(ctx, doc))
	}
	sum.Duration = l.now().Sub(start)

	l.logger.Info(ctx, "ingestion complete",
		logger.Int("attempted", sum.Attempted),
		logger.Int("succeeded", sum.Succeeded),
		logger.Int("skipped", sum.Skipped),
		logger.Int("failed", sum.Failed),
		logger.Duration("duration", sum.Duration),
	)
	return sum
}

// Load extracts and persists one document. Every call ends in exactly one
// of succeeded, skipped or failed.
func (l *Loader) Load(ctx context.Context, doc source.Document) (out Outcome) {
	start := l.now()
	out = Outcome{SourceID: doc.SourceID}
	log := l.logger.With(logger.String("source_file", doc.SourceID))

	defer func() {
		out.Duration = l.now().Sub(start)
		metrics.RecordOutcome(string(out.Status), out.Duration)
		switch out.Status {
		case StatusSucceeded:
			metrics.RecordWritten(out.Innings, out.Deliveries, out.Players)
			log.Info(ctx, "ingested",
				logger.Int64("match_id", out.MatchID),
				logger.Int("innings", out.Innings),
				logger.Int("deliveries", out.Deliveries),
				logger.Int("players", out.Players),
			)
		case StatusSkipped:
			log.Info(ctx, "skipped, already ingested")
		case StatusFailed:
			metrics.RecordError(string(out.Kind))
			log.Error(ctx, "record failed", logger.String("kind", string(out.Kind)), logger.Error(out.Err))
		}
	}()

	if doc.Err != nil {
		return failed(out, KindMalformedSource, doc.Err)
	}

	m, err := extract.Match(doc.Tree, doc.SourceID)
	if err != nil {
		return failed(out, extractionKind(err), err)
	}

	if l.deduper.SeenAndRecord(ctx, m.SourceFile) {
		return skipped(out)
	}
	exists, err := l.store.MatchExists(ctx, m.SourceFile)
	if err != nil {
		l.deduper.Unrecord(ctx, m.SourceFile)
		return failed(out, KindPersistence, err)
	}
	if exists {
		return skipped(out)
	}

	sc := model.Scorecard{Match: m, Players: extract.Players(doc.Tree)}
	sc.Innings, err = extract.Innings(doc.Tree, m.Teams)
	if err != nil {
		l.deduper.Unrecord(ctx, m.SourceFile)
		return failed(out, extractionKind(err), err)
	}

	id, err := l.persist(ctx, &sc)
	if err != nil {
		if errors.Is(err, errMatchTaken) {
			return skipped(out)
		}
		l.deduper.Unrecord(ctx, m.SourceFile)
		return failed(out, KindPersistence, err)
	}

	out.Status = StatusSucceeded
	out.MatchID = id
	out.Innings = len(sc.Innings)
	out.Deliveries = sc.DeliveryCount()
	out.Players = len(sc.Players)
	return out
}

// persist writes the scorecard as one unit of work. Any early return rolls back.
func (l *Loader) persist(ctx context.Context, sc *model.Scorecard) (int64, error) {
	uow, err := l.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if rbErr := uow.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			l.logger.Warn(ctx, "rollback failed", logger.String("source_file", sc.Match.SourceFile), logger.Error(rbErr))
		}
	}()

	id, err := uow.InsertMatch(ctx, sc.Match)
	if err != nil {
		return 0, matchTaken(err)
	}
	if err := uow.InsertPlayers(ctx, sc.Players); err != nil {
		return 0, err
	}
	if err := uow.InsertInnings(ctx, id, sc.Innings); err != nil {
		return 0, err
	}
	for i := range sc.Innings {
		inn := &sc.Innings[i]
		if err := uow.InsertDeliveries(ctx, id, inn.Number, inn.Deliveries); err != nil {
			return 0, fmt.Errorf("innings %d: %w", inn.Number, err)
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return 0, matchTaken(err)
	}
	return id, nil
}

func matchTaken(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %w", errMatchTaken, err)
	}
	return err
}

func failed(out Outcome, kind Kind, err error) Outcome {
	out.Status = StatusFailed
	out.Kind = kind
	out.Err = err
	return out
}

func skipped(out Outcome) Outcome {
	out.Status = StatusSkipped
	out.Kind = KindDuplicate
	return out
}
