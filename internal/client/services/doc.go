// Package services contains the session coordinator of the lexqa client:
// the Identity Store, Document Directory, Upload Validator and Coordinator,
// Deletion Gate and Query Session, composed by Session.
//
// Every component is safe for concurrent use. Single-slot rules (one upload,
// one deletion, one pending question) are enforced here and reported with
// the gating errors of package common, so they hold no matter which surface
// drives the session.
package services
