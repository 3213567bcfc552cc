package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"openmatch/internal/source"
)

type goldenLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

type goldenDiagnostic struct {
	goldenLine
	Notes []goldenLine
}

// FormatShortDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation intended for CLI short output and
// golden files. Diagnostics sort by location, then severity rank, then
// code; note lines stay directly under their parent diagnostic.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		if gd, ok := renderDiagnostic(&diags[i], fs, includeNotes); ok {
			rendered = append(rendered, gd)
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return severityRank(di.Severity) < severityRank(dj.Severity)
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	first := true
	for _, d := range rendered {
		writeGoldenLine(&b, d.goldenLine, &first)
		for _, n := range d.Notes {
			writeGoldenLine(&b, n, &first)
		}
	}
	return b.String()
}

func writeGoldenLine(b *strings.Builder, l goldenLine, first *bool) {
	if !*first {
		b.WriteByte('\n')
	}
	*first = false
	fmt.Fprintf(b, "%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
}

func renderDiagnostic(d *Diagnostic, fs *source.FileSet, includeNotes bool) (goldenDiagnostic, bool) {
	loc, ok := resolveSpan(fs, d.Primary)
	if !ok {
		return goldenDiagnostic{}, false
	}
	gd := goldenDiagnostic{
		goldenLine: goldenLine{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		},
	}

	if includeNotes {
		for _, note := range d.Notes {
			nloc, nok := resolveSpan(fs, note.Span)
			if !nok {
				continue
			}
			gd.Notes = append(gd.Notes, goldenLine{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return gd, true
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	defer func() {
		if recover() != nil {
			loc = resolvedSpan{}
			ok = false
		}
	}()

	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// severityRank orders rendered labels most severe first, matching
// Bag.Sort.
func severityRank(label string) int {
	switch label {
	case "error":
		return 0
	case "warning":
		return 1
	default:
		return 2
	}
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
