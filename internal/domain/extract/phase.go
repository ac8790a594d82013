// Package extract turns a decoded scorecard tree into normalized match,
// roster, innings and delivery entities.
package extract

import "github.com/okian/scorecard/internal/domain/model"

// T20 phase boundaries, as zero-based over indices.
const (
	powerplayLastOver = 5
	middleLastOver    = 14
)

// Phase classifies a zero-based over index. Negative input counts as powerplay.
func Phase(over int) model.Phase {
	switch {
	case over <= powerplayLastOver:
		return model.PhasePowerplay
	case over <= middleLastOver:
		return model.PhaseMiddle
	default:
		return model.PhaseDeath
	}
}
