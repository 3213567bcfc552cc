package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"openmatch/internal/diag"
	"openmatch/internal/source"
)

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("match color {\n    Red => paint(),\n    _ => skip(),\n}\n")
	fileID := fs.AddVirtual("render.om", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.LintOmittedPatterns,
		source.Span{File: fileID, Start: 6, End: 11},
		"match relies on openness",
	)
	d = d.WithNote(source.Span{File: fileID, Start: 18, End: 21}, "not covered explicitly: Green")
	bag.Add(d)
	bag.Add(diag.New(
		diag.SevInfo,
		diag.IntCheckAborted,
		source.Span{File: fileID, Start: 0, End: 5},
		"check aborted",
	))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got count=%d len=%d", out.Count, len(out.Diagnostics))
	}

	first := out.Diagnostics[0]
	if first.Severity != "WARNING" || first.Code != "LNT1001" {
		t.Fatalf("unexpected first diagnostic: %+v", first)
	}
	if first.Location.File != "render.om" {
		t.Fatalf("path mode not honored: %q", first.Location.File)
	}
	if first.Location.StartLine != 1 || first.Location.StartCol != 7 {
		t.Fatalf("positions missing or wrong: %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "not covered explicitly: Green" {
		t.Fatalf("expected witness note, got %+v", first.Notes)
	}

	if out.Diagnostics[1].Code != "INT2001" {
		t.Fatalf("unexpected second diagnostic: %+v", out.Diagnostics[1])
	}
}

func TestJSONMaxTruncatesOutputOnly(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.om", []byte("x\n"))

	bag := diag.NewBag(10)
	for range 5 {
		bag.Add(diag.New(diag.SevWarning, diag.LintOmittedPatterns,
			source.Span{File: fileID}, "msg"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected truncation to 2, got %d", out.Count)
	}
	if bag.Len() != 5 {
		t.Fatalf("bag must not be truncated, got %d", bag.Len())
	}
}
