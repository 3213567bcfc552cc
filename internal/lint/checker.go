// Package lint decides, per match expression, whether the match would
// stop being exhaustive if its open-for-extension types were sealed at
// their currently-known variant and field sets. Matches that pass
// ordinary exhaustiveness only thanks to openness-granted wildcard
// coverage get flagged: a new upstream variant would silently fall into
// the wildcard.
package lint

import (
	"fmt"

	"openmatch/internal/diag"
	"openmatch/internal/oracle"
	"openmatch/internal/pattern"
	"openmatch/internal/source"
	"openmatch/internal/types"
)

// ID is the stable lint identifier the host engine keys severity and
// suppression on.
const ID = "nonexhaustive-omitted-patterns"

// Match is one match expression as delivered by upstream resolution:
// subject types in order plus the resolved arm patterns. The input is
// assumed well-typed and already exhaustive under ordinary semantics.
type Match struct {
	Span    source.Span
	Subject []types.TypeID
	Arms    []pattern.Arm
}

// Result carries the verdict and, when the lint fires, up to
// oracle.MaxWitnesses uncovered regions for diagnostics.
type Result struct {
	Verdict Verdict
	Missing []oracle.Witness
	Err     error
}

// Checker evaluates match expressions against immutable type metadata.
// Safe for concurrent use: it only reads the registries.
type Checker struct {
	reg  *types.Interner
	strs *source.Interner
}

func NewChecker(reg *types.Interner, strs *source.Interner) *Checker {
	return &Checker{reg: reg, strs: strs}
}

// Evaluate runs the hypothetical-closed check for one match.
//
// Faults are confined to this match: they produce InternalError, never
// a trigger and never a suppression of other matches.
func (c *Checker) Evaluate(m Match) Result {
	open, err := c.reg.ContainsOpen(m.Subject)
	if err != nil {
		return Result{Verdict: InternalError, Err: err}
	}
	if !open {
		return Result{Verdict: NoLintNeeded}
	}

	closed, err := pattern.CloseArms(c.reg, m.Arms)
	if err != nil {
		return Result{Verdict: InternalError, Err: err}
	}
	rows, err := pattern.BuildRows(len(m.Subject), closed)
	if err != nil {
		return Result{Verdict: InternalError, Err: err}
	}

	verdict, err := oracle.Check(c.reg, m.Subject, rows, oracle.TreatAllClosed)
	if err != nil {
		return Result{Verdict: InternalError, Err: err}
	}
	if verdict.Exhaustive {
		return Result{Verdict: NoLintNeeded}
	}
	return Result{Verdict: LintTriggered, Missing: verdict.Missing}
}

// Report renders a result to the host reporter. NoLintNeeded emits
// nothing; LintTriggered emits a warning with one note per witness;
// InternalError emits an info record so the aborted check stays
// visible without failing the compilation.
func (c *Checker) Report(r diag.Reporter, m Match, res Result) {
	switch res.Verdict {
	case NoLintNeeded:

	case LintTriggered:
		b := diag.ReportWarning(r, diag.LintOmittedPatterns, m.Span,
			fmt.Sprintf("match is exhaustive only through open-for-extension coverage (%s)", ID))
		for _, w := range res.Missing {
			b.WithNote(m.Span, "not covered explicitly: "+w.Format(c.reg, c.strs))
		}
		b.Emit()

	case InternalError:
		msg := "exhaustiveness check aborted"
		if res.Err != nil {
			msg = fmt.Sprintf("exhaustiveness check aborted: %v", res.Err)
		}
		diag.ReportInfo(r, diag.IntCheckAborted, m.Span, msg).Emit()
	}
}
