package brannigan

// Package brannigan provides:
//
// - Declarative, schema-driven validation and transformation of semi-structured
//   input (form submissions, API request bodies): maps of scalar, array, and
//   nested-hash values
// - Schema inheritance with deep-merge override semantics, resolved into a
//   cached effective rule tree
// - Literal and regex-pattern field matching with capture-group extraction
// - A stable reject model addressed by dotted path (for example
//   education.1.school) that is returned as data, never raised as an error
// - Field groups that aggregate several fields (or regex-matched fields)
//   through a single parse hook
//
// Design policy:
// - Keep the engine pure: no I/O, no logging, no persistence in the root
//   package. Boundaries live in subpackages (schemafile, middleware, bind)
//   and under cmd/brannigan.
// - Rule evaluation is a synchronous function of the value and its configured
//   arguments; user hooks are never recovered from.
// - Prefer black-box testing against the public API.
//
// Typical usage:
//
//	b := brannigan.New(postSchema, editPostSchema)
//	res, err := b.Process("post", input)
//	if err != nil { ... }            // unknown schema, cyclic inheritance, ...
//	if len(res.Rejects) > 0 { ... }  // validation failures, keyed by dotted path
//	use(res.Output)
