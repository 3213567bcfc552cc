package lint

// Verdict is the outcome of one match-expression check.
type Verdict uint8

const (
	// NoLintNeeded: the match does not rely on openness for its
	// exhaustiveness, or no open type participates at all.
	NoLintNeeded Verdict = iota
	// LintTriggered: at least one currently-known case is covered only
	// by openness-granted wildcard credit.
	LintTriggered
	// InternalError: the check aborted on inconsistent metadata or a
	// malformed pattern tree. Never a false trigger.
	InternalError
)

func (v Verdict) String() string {
	switch v {
	case NoLintNeeded:
		return "no-lint-needed"
	case LintTriggered:
		return "lint-triggered"
	case InternalError:
		return "internal-error"
	}
	return "unknown"
}
