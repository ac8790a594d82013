package source

import (
	"errors"
	"fmt"

	"github.com/okian/scorecard/internal/domain/extract"
)

// Sentinel kinds for source errors.
var (
	ErrEmptyDocument = fmt.Errorf("empty document: %w", extract.ErrMalformedSource)
	ErrNoFiles       = errors.New("no source files matched")

	ErrAliasCycle     = errors.New("alias refers to itself")
	ErrAliasExpansion = errors.New("alias expansion exceeds document size limit")
)
