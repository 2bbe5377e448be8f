// Package diag defines the diagnostic model shared by the optimizer
// passes and the CLI.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by passes over the instruction stream.
//   - Offer a light-weight container (Bag) that lets passes record
//     diagnostics without coupling to formatting or IO layers.
//
// # Scope
//
// Package diag performs no formatting or IO. Rendering lives in the CLI
// layer; passes only append records.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) in severity.go.
//   - Code – compact numeric identifier (codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the IR locus (function, block, instruction index).
//
// Unlike front-end diagnostics there are no source spans here: by the
// time a module reaches the optimizer its positions are IR positions.
package diag
