// Package validation compiles a schema.Record into a Validator and runs it
// against plain records, producing a Result whose error tree is keyed by
// dotted field paths.
//
// Validation is pure and synchronous: a Validator holds no mutable state and
// returns equal results for equal input. Per field, constraints run in
// declaration order and stop at the first failure; cross-field rules run
// afterwards and only add messages.
package validation
