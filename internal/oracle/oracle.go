// Package oracle decides whether a set of match-arm patterns covers the
// full value space of its subject. One usefulness algorithm serves both
// semantics; the Mode flag only changes whether an open enum's known
// variant set counts as complete.
package oracle

import (
	"errors"
	"fmt"

	"openmatch/internal/pattern"
	"openmatch/internal/types"
)

// Mode selects how open-for-extension types are treated.
type Mode uint8

const (
	// RespectOpenness reproduces ordinary compilation semantics: an
	// open enum always has a hidden extension constructor, so only a
	// wildcard (or a binding) closes it.
	RespectOpenness Mode = iota
	// TreatAllClosed treats every known variant set as complete and
	// final; openness earns no credit.
	TreatAllClosed
)

func (m Mode) String() string {
	switch m {
	case RespectOpenness:
		return "respect-openness"
	case TreatAllClosed:
		return "treat-all-closed"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ErrMalformed signals pattern trees or type metadata the oracle cannot
// interpret. A well-formed upstream compilation never triggers it.
var ErrMalformed = errors.New("oracle: malformed input")

// MaxWitnesses caps how many missing regions a verdict enumerates. The
// verdict itself does not depend on the cap: one witness suffices.
const MaxWitnesses = 8

// Witness is one uncovered region, rendered as a pattern per subject
// position that would match it.
type Witness struct {
	Cols []pattern.Pat
}

// Verdict is the result of one oracle run.
type Verdict struct {
	Exhaustive bool
	Missing    []Witness
}

// Check reports whether rows cover the whole product space of the
// subject types under the given mode.
func Check(reg *types.Interner, subject []types.TypeID, rows []pattern.Row, mode Mode) (Verdict, error) {
	if len(subject) == 0 {
		return Verdict{}, fmt.Errorf("%w: empty subject", ErrMalformed)
	}
	for i, row := range rows {
		if len(row) != len(subject) {
			return Verdict{}, fmt.Errorf("%w: row %d has width %d, want %d", ErrMalformed, i, len(row), len(subject))
		}
	}

	c := &checker{reg: reg, mode: mode, budget: MaxWitnesses}
	missing, err := c.missing(rows, subject)
	if err != nil {
		return Verdict{}, err
	}
	verdict := Verdict{Exhaustive: len(missing) == 0}
	for _, cols := range missing {
		verdict.Missing = append(verdict.Missing, Witness{Cols: cols})
	}
	return verdict, nil
}
