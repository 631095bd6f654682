package brannigan

// UnknownPolicy controls how input fields that match no literal or pattern
// rule key ("unreferenced" fields) are handled. The policy is a registry-level
// setting; individual schemas do not override it.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Pass unreferenced fields through untouched.
	UnknownRemove                      // Drop unreferenced fields from the output.
	UnknownReject                      // Record an unknown-field reject for each.
)

// FieldKind tags the shape a field is expected to have. Nesting is modeled
// explicitly instead of being inferred from dynamic flags at process time.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindArray                // items are processed against FieldSpec.Values
	KindHash                 // entries are processed against FieldSpec.Keys
)

// ValidatorFunc is a named, pure predicate dispatched by rule name. It
// receives the field value followed by the rule's configured arguments and
// reports whether the value passes.
type ValidatorFunc func(value any, args ...any) bool

// ValidateFunc is a field's inline validation hook. For pattern-matched
// fields, the ordered regex capture groups are passed after the value.
type ValidateFunc func(value any, captures ...string) bool

// ParseFunc rewrites a field into one or more output keys. The returned map
// is merged into the output (nested maps merge up to two levels deep, so two
// fields can contribute into the same nested output key). For pattern-matched
// fields, capture groups are passed after the value.
type ParseFunc func(value any, captures ...string) map[string]any

// PreprocessFunc rewrites a raw input value before validation and parsing.
type PreprocessFunc func(value any) any

// PostprocessFunc rewrites a field's output value after the parse step.
type PostprocessFunc func(value any, captures ...string) any

// DefaultFunc produces a default value for a field absent from the input.
// Defaults are applied before validation, not after.
type DefaultFunc func() any

// Match carries one regex-matched input field handed to a group's
// ParseMatches hook.
type Match struct {
	Value    any
	Captures []string
}
