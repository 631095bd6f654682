package brannigan

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotObject reports JSON input whose top level is not an object. It is the
// no-result sentinel for the JSON boundary; Process itself takes a typed map
// and cannot receive a non-map input.
var ErrNotObject = errors.New("brannigan: input is not a JSON object")

// UnknownSchemaError reports a schema name that is not registered, either as
// a Process target or as an ancestor in an inheritance chain.
type UnknownSchemaError struct {
	Name string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("brannigan: unknown schema %q", e.Name)
}

// CyclicInheritanceError reports a schema whose inheritance chain reaches
// itself.
type CyclicInheritanceError struct {
	Name string
}

func (e *CyclicInheritanceError) Error() string {
	return fmt.Sprintf("brannigan: cyclic inheritance through schema %q", e.Name)
}

// MalformedRuleError reports a structurally invalid rule configuration, such
// as a hash-marked field without Keys or an uncompilable pattern. It is
// raised at compile time and fails the whole Process call.
type MalformedRuleError struct {
	Schema string
	Field  string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("brannigan: malformed rule in schema %q: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("brannigan: malformed rule in schema %q, field %q: %s", e.Schema, e.Field, e.Reason)
}

// UnknownValidatorError reports a rule name that resolves to no inline hook,
// no registered validator, and no built-in.
type UnknownValidatorError struct {
	Name string
}

func (e *UnknownValidatorError) Error() string {
	return fmt.Sprintf("brannigan: unknown validator %q", e.Name)
}

// Reject describes a single validation failure: the rule that failed and the
// arguments it was configured with, or Unknown for a field no rule key
// references. Rejects are data for the caller to interpret, never errors.
type Reject struct {
	Rule    string `json:"rule,omitempty"`
	Args    []any  `json:"args,omitempty"`
	Unknown bool   `json:"unknown,omitempty"`
}

// RejectMap collects rejects keyed by dotted path. Array indices appear as
// numeric segments, e.g. education.1.school.
type RejectMap map[string][]Reject

// add appends a reject at path, initializing the map entry when needed.
func (rm RejectMap) add(path string, r Reject) {
	rm[path] = append(rm[path], r)
}

// Has reports whether any reject was recorded at path.
func (rm RejectMap) Has(path string) bool {
	return len(rm[path]) > 0
}

// Paths returns every rejected path in sorted order.
func (rm RejectMap) Paths() []string {
	ps := make([]string, 0, len(rm))
	for p := range rm {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}
