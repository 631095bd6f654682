package brannigan

// Rules maps a validator name to its configured arguments. A scalar-argument
// rule holds a one-element slice; flag rules such as required hold a single
// truthy/falsy value. Rule names are the unit of inheritance override: a
// derived schema replaces individual rules, never the whole field.
//
// The names validate, parse, preprocess, postprocess and default are
// reserved for the typed hook fields on FieldSpec and are rejected at
// compile time when they appear here.
type Rules map[string][]any

// FieldSpec configures a single field (or pattern of fields): its named
// validation rules, optional hooks, default value, and nesting.
type FieldSpec struct {
	// Rules holds named validator rules, e.g. {"required": {true},
	// "length_between": {3, 40}}.
	Rules Rules

	// Validate is an inline predicate taking precedence over registered and
	// built-in validators. A false result records a "validate" reject.
	Validate ValidateFunc

	// Parse fans the field into one or more output keys; when set, the raw
	// value is no longer copied through under its own name.
	Parse ParseFunc

	// Preprocess rewrites the raw value before validation and parsing.
	Preprocess PreprocessFunc

	// Postprocess rewrites the field's output value after the parse step.
	Postprocess PostprocessFunc

	// Default is a literal value or a DefaultFunc applied when the field is
	// absent from the input. It runs before validation.
	Default any

	// Kind declares the field's shape. KindArray requires Values, KindHash
	// requires Keys; violations surface as MalformedRuleError at compile.
	Kind FieldKind

	// Values is the item spec for KindArray fields.
	Values *FieldSpec

	// Keys is the entry spec for KindHash fields.
	Keys *KeySet
}

// KeySet declares one level of hash entries: literal names and regex
// patterns, exactly like a schema's top-level Params and Patterns.
type KeySet struct {
	Params   map[string]*FieldSpec
	Patterns map[string]*FieldSpec
}

// GroupSpec aggregates several fields through one parse hook. Exactly one
// style must be configured: Fields+Parse gathers the named fields' current
// values in declared order; Pattern+ParseMatches gathers every input field
// matching the pattern.
type GroupSpec struct {
	// Fields lists the field names handed positionally to Parse.
	Fields []string

	// Parse receives the gathered values in Fields order. The group is
	// skipped when a named field is absent; hooks should still tolerate nil
	// values and return nothing when they cannot produce output.
	Parse func(values ...any) map[string]any

	// Pattern is a regex matched against field names.
	Pattern string

	// ParseMatches receives every matching field as a Match, in sorted field
	// name order.
	ParseMatches func(matches []Match) map[string]any
}

// Schema is a named declarative definition of expected fields, their rules,
// and parsing/grouping behavior. A registered schema is treated as immutable;
// re-registering the same name replaces it.
type Schema struct {
	Name string

	// Inherits lists parent schema names, applied left to right; later
	// parents override earlier ones and the schema itself overrides all of
	// them, rule name by rule name.
	Inherits []string

	// IgnoreMissing controls whether unreferenced fields are still copied to
	// the output under the UnknownReject policy. It has no effect under
	// UnknownIgnore or UnknownRemove.
	IgnoreMissing bool

	// Params maps literal field names to their specs. A literal match always
	// wins over any pattern match and fully replaces it.
	Params map[string]*FieldSpec

	// Patterns maps regex sources to specs. Every pattern matching a field
	// name contributes, each with its own capture groups.
	Patterns map[string]*FieldSpec

	// Groups maps group names to their aggregation specs. Groups are
	// evaluated at the top level after all fields are transformed.
	Groups map[string]*GroupSpec

	// Postprocess runs on the assembled top-level output, and only when the
	// validate pass produced no rejects at all.
	Postprocess func(output map[string]any) map[string]any
}
