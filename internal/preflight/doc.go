// Package preflight provides readiness checks for the catalog and the
// filesystem paths a dedupe run writes to.
//
// These checks run in two contexts:
//   - The dedupe runner calls RunAll after taking the run lock. If any check
//     fails the run aborts before a single group is touched.
//   - The CLI "folio db check" command prints every result.
//
// Optional paths are only checked when configured.
package preflight
