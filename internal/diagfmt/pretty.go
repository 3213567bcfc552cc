package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"openmatch/internal/diag"
	"openmatch/internal/source"
)

// Pretty renders diagnostics in a human-readable form. It walks
// bag.Items() (call bag.Sort() beforehand). Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline over the span,
// then notes in the same location format. Color is opt-in.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writePretty(w, d, fs, opts)
	}
}

func writePretty(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(file, fs, opts.PathMode)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = color.New(color.Bold).Sprint(code)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)

	writeContext(w, file, start, end, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nfile := fs.Get(note.Span.File)
			nstart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d %s\n",
				formatPath(nfile, fs, opts.PathMode), nstart.Line, nstart.Col, note.Msg)
		}
	}
}

func writeContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	first := start.Line
	if opts.Context > 0 && first > uint32(opts.Context) {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(w, "  %s\n", file.GetLine(ln))
	}

	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	// underline only the first line of the span
	startCol := int(start.Col)
	if startCol < 1 {
		startCol = 1
	}
	runes := []rune(line)
	prefixEnd := startCol - 1
	if prefixEnd > len(runes) {
		prefixEnd = len(runes)
	}
	pad := runewidth.StringWidth(string(runes[:prefixEnd]))

	segEnd := len(runes)
	if end.Line == start.Line && int(end.Col)-1 < segEnd {
		segEnd = int(end.Col) - 1
	}
	if segEnd < prefixEnd {
		segEnd = prefixEnd
	}
	underline := runewidth.StringWidth(string(runes[prefixEnd:segEnd]))
	if underline < 1 {
		underline = 1
	}

	marker := "^" + strings.Repeat("~", underline-1)
	if opts.Color {
		marker = severityColorBySpan().Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

func severityColorBySpan() *color.Color {
	return color.New(color.FgGreen, color.Bold)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.Path
	}
}
