// Package dedupe resolves identifiers claimed by more than one title.
//
// A Runner takes the single-run lock, verifies the catalog, runs the
// identifier codec pre-pass, and feeds the Selector's groups to a
// Coordinator. The Coordinator's workers each resolve one group per
// transaction through the Resolver, which either merges the claimants into a
// winner (Merge) or reroutes the identifier to the placeholder title
// (Disown). Group failures roll back and are counted, never propagated. When
// a run finishes clean the catalog gets its unique identifier index.
package dedupe
