// Package taskfilter parses and evaluates the filter expressions used to
// select task records from a collection.
//
// Two filter representations are supported. Ad hoc filter strings are
// human-authored boolean expressions over task attributes:
//
//	(done = false && priority >= 4) || dueDate < now+3d
//
// They are parsed by ParseFilterString into an immutable expression tree, or
// by ParseSimpleFilter when the input is a single field-operator-value
// condition. Both parsers are soft-fail: malformed input yields a nil result,
// never a panic, because "not a valid filter" is an expected outcome on the
// filtering path.
//
// Structured filter expressions are the persisted, JSON-shaped form: one to
// ten groups of conditions, two levels deep and never deeper. They round-trip
// through untrusted storage, so ValidateFilterExpression,
// SerializeFilterExpression, and DeserializeFilterExpression are hard-fail:
// any violation of the field allow-list, the size and count bounds, or the
// dangerous-content rules raises a typed *ValidationError naming the
// offending group and condition. Validation runs on every read and every
// write; a previous pass is never trusted.
//
// Evaluate and ApplyFilter run either representation against records. All
// parsing, validation, and evaluation are synchronous, allocation-bounded,
// side-effect-free functions of their inputs and are safe for concurrent use
// without coordination.
package taskfilter
