// Package equivalence decides how a group of titles sharing one identifier is
// resolved: merge the group into its most book-like member, or disown the
// identifier.
//
// Decisions are pure functions of the claimants and a Policy; the package
// performs no I/O. NormalizeTitle provides the fuzzy title comparison and
// SortClaimants the total order that picks the winner.
package equivalence
