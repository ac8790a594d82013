package service

import (
	"errors"
	"time"

	"github.com/okian/scorecard/internal/domain/extract"
)

// Status is the terminal state of one source record.
type Status string

// Record statuses.
const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Kind names why a record was skipped or failed.
type Kind string

// Outcome kinds.
const (
	KindNone            Kind = ""
	KindMalformedSource Kind = "malformed_source"
	KindMalformedKey    Kind = "malformed_key"
	KindDuplicate       Kind = "duplicate"
	KindPersistence     Kind = "persistence"
)

// Outcome is the tagged result of loading one record.
type Outcome struct {
	SourceID   string
	Status     Status
	Kind       Kind
	Err        error
	MatchID    int64
	Innings    int
	Deliveries int
	Players    int
	Duration   time.Duration
}

// Summary aggregates the outcomes of a run. Attempted always equals
// Succeeded + Skipped + Failed.
type Summary struct {
	Attempted int
	Succeeded int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Failures  []Outcome
}

// Add counts one outcome.
func (s *Summary) Add(o Outcome) {
	s.Attempted++
	switch o.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
		s.Failures = append(s.Failures, o)
	}
}

// extractionKind classifies an extraction error.
func extractionKind(err error) Kind {
	if errors.Is(err, extract.ErrMalformedKey) {
		return KindMalformedKey
	}
	return KindMalformedSource
}
