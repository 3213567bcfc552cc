// Package driver orchestrates checking: it fans match expressions out
// across workers, collects per-match diagnostic bags and merges them
// back in input order so output stays deterministic.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"openmatch/internal/diag"
	"openmatch/internal/lint"
	"openmatch/internal/observ"
	"openmatch/internal/snapshot"
)

// CheckResult holds the outcome of checking one match expression.
type CheckResult struct {
	Match  lint.Match
	Result lint.Result
	Bag    *diag.Bag
}

// CheckAll evaluates every match in parallel. Each invocation reads
// only immutable registries, so no locking is needed; results land at
// unique indices.
func CheckAll(ctx context.Context, checker *lint.Checker, matches []lint.Match, maxDiagnostics, jobs int) ([]CheckResult, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]CheckResult, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(matches)))

	for i, m := range matches {
		g.Go(func(i int, m lint.Match) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(maxDiagnostics)
				res := checker.Evaluate(m)
				checker.Report(diag.BagReporter{Bag: bag}, m, res)

				results[i] = CheckResult{Match: m, Result: res, Bag: bag}
				return nil
			}
		}(i, m))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MergeBags combines per-match bags in input order and sorts the total.
func MergeBags(results []CheckResult, maxDiagnostics int) *diag.Bag {
	total := diag.NewBag(maxDiagnostics)
	for i := range results {
		if results[i].Bag != nil {
			total.Merge(results[i].Bag)
		}
	}
	total.Sort()
	return total
}

// Summary counts verdicts across results.
type Summary struct {
	Checked   int
	Triggered int
	Clean     int
	Aborted   int
}

func Summarize(results []CheckResult) Summary {
	s := Summary{Checked: len(results)}
	for i := range results {
		switch results[i].Result.Verdict {
		case lint.LintTriggered:
			s.Triggered++
		case lint.NoLintNeeded:
			s.Clean++
		case lint.InternalError:
			s.Aborted++
		}
	}
	return s
}

// CheckSnapshot loads a snapshot file and checks every match in it.
// The timer, when non-nil, records the load and check phases.
func CheckSnapshot(ctx context.Context, path string, maxDiagnostics, jobs int, timer *observ.Timer) (*snapshot.Decoded, []CheckResult, error) {
	var idx int
	if timer != nil {
		idx = timer.Begin("load")
	}
	dec, err := snapshot.Load(path)
	if timer != nil {
		timer.End(idx, path)
	}
	if err != nil {
		return nil, nil, err
	}

	if timer != nil {
		idx = timer.Begin("check")
	}
	checker := lint.NewChecker(dec.Types, dec.Strings)
	results, err := CheckAll(ctx, checker, dec.Matches, maxDiagnostics, jobs)
	if timer != nil {
		timer.End(idx, "")
	}
	return dec, results, err
}
