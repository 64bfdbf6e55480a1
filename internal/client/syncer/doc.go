// Package syncer decides when the mirrored collections are fetched again.
//
// Each resource has at most one fetch in flight. A plain Refresh joins the
// running fetch; a Resync, used after a mutation, waits for a fetch that
// starts after the call. Results are applied only if they belong to the
// current session epoch and are newer than what the mirror already holds.
// A failed fetch keeps the previous snapshot and is passed to the
// listeners registered with OnFailure.
package syncer
