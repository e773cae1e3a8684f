// Package form binds a compiled validator to a mutable record and exposes the
// imperative API a rendering layer drives: field registration, value updates,
// list entry mutation and submission.
//
// A Controller owns exactly one record. List fields hold entries tagged with
// a stable identity key so that removing one entry never shifts the identity,
// dirty flags or stored errors of the others. Snapshots expose everything by
// index paths ("exp.1.position"), the form callers and validators speak.
package form
