// Package main hosts the folio CLI entrypoint and command graph.
//
// The Cobra-based command tree runs identifier deduplication batches against
// the catalog, reports conflicting identifiers, converts ISBNs between their
// 10 and 13 character forms, and scaffolds configuration. It centralizes
// configuration resolution and logger setup so subcommands can focus on
// presenting results.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
