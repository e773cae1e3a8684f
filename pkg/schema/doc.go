// Package schema defines the declarative description of a form record: the
// ordered fields, their kind, the constraints attached to each field and the
// cross-field rules evaluated over the whole record. Values built here are
// treated as immutable once handed to validation.Compile; builders return
// copies rather than mutating shared state.
//
// Field kinds form a closed tagged set (text, boolean, choice, object, list)
// and every consumer dispatches on Field.Kind with a switch. Paths are dotted
// strings: "email", "owner.email", "exp.0.position".
package schema
