package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"openmatch/internal/diag"
	"openmatch/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()

	content := []byte("match color {\n    Red => paint(),\n    _ => skip(),\n}\n")
	fileID := fs.AddVirtual("/home/user/project/src/render.om", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.LintOmittedPatterns,
		source.Span{File: fileID, Start: 0, End: 12},
		"match is exhaustive only through open-for-extension coverage",
	)
	bag.Add(d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{
			name:     "Absolute path",
			mode:     PathModeAbsolute,
			contains: "/home/user/project/src/render.om",
		},
		{
			name:     "Relative path",
			mode:     PathModeRelative,
			contains: "src/render.om",
		},
		{
			name:     "Basename only",
			mode:     PathModeBasename,
			contains: "render.om",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  1,
				PathMode: tt.mode,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}

			if !strings.Contains(output, "WARNING") {
				t.Error("Expected WARNING in output")
			}
			if !strings.Contains(output, "LNT1001") {
				t.Error("Expected LNT1001 code in output")
			}
			if !strings.Contains(output, "open-for-extension") {
				t.Error("Expected lint message in output")
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "Short path - as is",
			path:     "render.om",
			expected: "render.om",
		},
		{
			name:     "Long absolute path - basename",
			path:     "/very/long/absolute/path/to/some/nested/directory/file.om",
			expected: "file.om",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("match x { _ => () }\n")
			fileID := fs.AddVirtual(tt.path, content)

			bag := diag.NewBag(10)
			d := diag.New(
				diag.SevInfo,
				diag.IntCheckAborted,
				source.Span{File: fileID, Start: 6, End: 7},
				"check aborted",
			)
			bag.Add(d)

			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  0,
				PathMode: PathModeAuto,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyUnderlineAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("match color {\n    Red => paint(),\n    _ => skip(),\n}\n")
	fileID := fs.AddVirtual("render.om", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 6, End: 11} // "color"
	d := diag.New(diag.SevWarning, diag.LintOmittedPatterns, primary, "match relies on openness")

	noteSpan := source.Span{File: fileID, Start: 18, End: 21}
	d = d.WithNote(noteSpan, "not covered explicitly: Green")
	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:     false,
		Context:   0,
		PathMode:  PathModeBasename,
		ShowNotes: true,
	}
	Pretty(&buf, bag, fs, opts)
	output := buf.String()

	if !strings.Contains(output, "render.om:1:7: WARNING LNT1001: match relies on openness") {
		t.Fatalf("expected header line, got:\n%s", output)
	}
	if !strings.Contains(output, "  match color {") {
		t.Fatalf("expected source context line, got:\n%s", output)
	}
	if !strings.Contains(output, "        ^~~~~") {
		t.Fatalf("expected underline over the span, got:\n%s", output)
	}
	if !strings.Contains(output, "note: render.om:2:5 not covered explicitly: Green") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
}
