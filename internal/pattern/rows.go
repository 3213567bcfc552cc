package pattern

import (
	"errors"
	"fmt"
)

// ErrBadPattern signals a pattern tree that does not fit its subject,
// which a well-formed upstream compilation never produces.
var ErrBadPattern = errors.New("pattern: malformed pattern")

// Row is one matrix row: one pattern per subject position.
type Row []Pat

// BuildRows normalizes arms into matrix rows over width subject
// positions. Top-level or-patterns expand into one row per
// alternative; a joint subject accepts a tuple pattern of matching
// arity or a bare wildcard (which widens to a wildcard per position).
func BuildRows(width int, arms []Arm) ([]Row, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: empty subject", ErrBadPattern)
	}
	rows := make([]Row, 0, len(arms))
	for i := range arms {
		expanded, err := armRows(width, arms[i].Pat)
		if err != nil {
			return nil, err
		}
		rows = append(rows, expanded...)
	}
	return rows, nil
}

func armRows(width int, p Pat) ([]Row, error) {
	switch node := p.(type) {
	case *Or:
		var rows []Row
		for _, alt := range node.Alts {
			sub, err := armRows(width, alt)
			if err != nil {
				return nil, err
			}
			rows = append(rows, sub...)
		}
		return rows, nil
	case *Tuple:
		if width > 1 {
			if len(node.Elems) != width {
				return nil, fmt.Errorf("%w: tuple arity %d against %d subjects", ErrBadPattern, len(node.Elems), width)
			}
			return []Row{Row(node.Elems)}, nil
		}
		return []Row{{p}}, nil
	case *Wildcard:
		row := make(Row, width)
		for i := range row {
			row[i] = &Wildcard{Base: Base{Span: node.Span}}
		}
		return []Row{row}, nil
	default:
		if width > 1 {
			return nil, fmt.Errorf("%w: joint subject needs a tuple or wildcard arm", ErrBadPattern)
		}
		return []Row{{p}}, nil
	}
}
