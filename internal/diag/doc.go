// Package diag defines the core diagnostic model shared by the checking
// pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the snapshot loader and the lint pass.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering responsibilities live in internal/diagfmt; orchestration lives
// in internal/driver and the CLI commands.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the match.
//   - Notes – optional secondary spans/messages for additional context,
//     one per missing-pattern witness.
//
// Notes should be used sparingly: each note must add new context rather than
// repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Producers should use a diag.Reporter to decouple emission from storage.
// The lint pass constructs a ReportBuilder via NewReportBuilder (or the
// helper functions ReportError/ReportWarning/ReportInfo) and chains WithNote
// before calling Emit. When no extra metadata is needed, producers may call
// Reporter.Report(...) directly. diag.BagReporter aggregates diagnostics
// into a Bag, which supports sorting, deduplication, and merging.
//
// Keep the data model deterministic so the CLI and tooling can safely
// serialise diagnostics for caching and testing.
package diag
