// Package catalog persists titles, identifier mappings, and the containment,
// translation, and image edges between titles in SQLite.
//
// The import pipeline fills the catalog through the Add/Insert methods; the
// dedupe engine reads conflicting identifiers through DuplicateIdentifiers and
// resolves each one inside a Tx obtained from WithTx. Every write on Tx is
// conflict tolerant so a group can be replayed after a failed attempt.
//
// Identifier mappings are not unique while conflicts remain.
// AddUniqueIdentifierConstraint installs the unique index once a run has
// resolved them all. Schema changes bump schemaVersion in schema.go.
package catalog
