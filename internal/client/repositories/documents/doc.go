// Package documents persists the last-known-good document collection of each
// identity, so a restarted client can show it before the first refresh.
//
// A snapshot is always written as a whole: Replace deletes the previous rows
// and inserts the new ones in one transaction, keeping server order in the
// position column. Load returns found=false when nothing was ever saved for
// the identity, which is different from a saved empty collection.
package documents
