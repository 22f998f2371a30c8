// Package snapshot stores the resolved model of each run in SQLite.
//
// The snapshot lets operators query what the generator produced (which
// things sit on which bridge, which channel an item is linked to) without
// parsing the generated DSL files. Only the latest run of each site is
// kept; saving a run deletes the site's previous rows.
//
// Secret values are never stored. Thing UIDs are stored as rendered, so a
// UID built from a secret placeholder would leak it; keep secrets out of
// UID patterns.
package snapshot
