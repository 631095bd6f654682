package brannigan

import (
	"regexp"
	"sort"
)

// reservedRuleNames are hook names carried by the typed FieldSpec fields;
// they may not appear as named rules.
var reservedRuleNames = map[string]bool{
	"validate":    true,
	"parse":       true,
	"preprocess":  true,
	"postprocess": true,
	"default":     true,
}

// compiledSchema is the inheritance-resolved, deep-merged effective schema
// used at process time. Compiling the same schema twice against an unchanged
// registry yields an identical tree.
type compiledSchema struct {
	name          string
	ignoreMissing bool
	params        *level
	groups        []*compiledGroup // sorted by name
	postprocess   func(map[string]any) map[string]any
}

// level holds one level of compiled field rules: literal names plus compiled
// patterns in sorted source order, for deterministic matching.
type level struct {
	literals map[string]*compiledField
	patterns []*compiledPattern
}

type compiledField struct {
	spec   *FieldSpec
	values *compiledField // item spec for KindArray
	keys   *level         // entry specs for KindHash
}

type compiledPattern struct {
	src   string
	re    *regexp.Regexp
	field *compiledField
}

type compiledGroup struct {
	name         string
	fields       []string
	parse        func(values ...any) map[string]any
	re           *regexp.Regexp
	parseMatches func([]Match) map[string]any
}

// resolve walks the inheritance chain depth-first and returns the effective
// schema. active tracks the in-progress resolution set so cycles fail fast
// instead of recursing unboundedly. The caller must hold at least a read
// lock on the registry.
func (b *Brannigan) resolve(name string, active map[string]bool) (*Schema, error) {
	if active[name] {
		return nil, &CyclicInheritanceError{Name: name}
	}
	s, ok := b.schemas[name]
	if !ok {
		return nil, &UnknownSchemaError{Name: name}
	}
	active[name] = true
	defer delete(active, name)

	eff := &Schema{}
	for _, parent := range s.Inherits {
		p, err := b.resolve(parent, active)
		if err != nil {
			return nil, err
		}
		eff = mergeSchema(eff, p)
	}
	return mergeSchema(eff, s), nil
}

// newCompiledSchema validates the effective schema's structure, compiles its
// patterns, and freezes it into a compiledSchema.
func newCompiledSchema(s *Schema) (*compiledSchema, error) {
	params, err := compileLevel(s.Name, &KeySet{Params: s.Params, Patterns: s.Patterns})
	if err != nil {
		return nil, err
	}
	groups, err := compileGroups(s)
	if err != nil {
		return nil, err
	}
	return &compiledSchema{
		name:          s.Name,
		ignoreMissing: s.IgnoreMissing,
		params:        params,
		groups:        groups,
		postprocess:   s.Postprocess,
	}, nil
}

func compileLevel(schema string, ks *KeySet) (*level, error) {
	lv := &level{literals: make(map[string]*compiledField, len(ks.Params))}
	for _, name := range sortedKeys(ks.Params) {
		cf, err := compileField(schema, name, ks.Params[name])
		if err != nil {
			return nil, err
		}
		lv.literals[name] = cf
	}
	for _, src := range sortedKeys(ks.Patterns) {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, &MalformedRuleError{Schema: schema, Field: src, Reason: "invalid pattern: " + err.Error()}
		}
		cf, err := compileField(schema, src, ks.Patterns[src])
		if err != nil {
			return nil, err
		}
		lv.patterns = append(lv.patterns, &compiledPattern{src: src, re: re, field: cf})
	}
	return lv, nil
}

func compileField(schema, field string, spec *FieldSpec) (*compiledField, error) {
	if spec == nil {
		spec = &FieldSpec{}
	}
	for name := range spec.Rules {
		if reservedRuleNames[name] {
			return nil, &MalformedRuleError{Schema: schema, Field: field, Reason: "reserved rule name " + name + " must use the typed hook field"}
		}
	}
	cf := &compiledField{spec: spec}
	switch spec.Kind {
	case KindScalar:
		if spec.Values != nil {
			return nil, &MalformedRuleError{Schema: schema, Field: field, Reason: "Values set on a non-array field"}
		}
		if spec.Keys != nil {
			return nil, &MalformedRuleError{Schema: schema, Field: field, Reason: "Keys set on a non-hash field"}
		}
	case KindArray:
		if spec.Values == nil {
			return nil, &MalformedRuleError{Schema: schema, Field: field, Reason: "array field without Values"}
		}
		values, err := compileField(schema, field+" values", spec.Values)
		if err != nil {
			return nil, err
		}
		cf.values = values
	case KindHash:
		if spec.Keys == nil {
			return nil, &MalformedRuleError{Schema: schema, Field: field, Reason: "hash field without Keys"}
		}
		keys, err := compileLevel(schema, spec.Keys)
		if err != nil {
			return nil, err
		}
		cf.keys = keys
	default:
		return nil, &MalformedRuleError{Schema: schema, Field: field, Reason: "unknown field kind"}
	}
	return cf, nil
}

func compileGroups(s *Schema) ([]*compiledGroup, error) {
	groups := make([]*compiledGroup, 0, len(s.Groups))
	for _, name := range sortedKeys(s.Groups) {
		g := s.Groups[name]
		paramsStyle := len(g.Fields) > 0 || g.Parse != nil
		regexStyle := g.Pattern != "" || g.ParseMatches != nil
		if paramsStyle == regexStyle {
			return nil, &MalformedRuleError{Schema: s.Name, Field: name, Reason: "group must configure exactly one of Fields+Parse or Pattern+ParseMatches"}
		}
		cg := &compiledGroup{name: name}
		if paramsStyle {
			if len(g.Fields) == 0 || g.Parse == nil {
				return nil, &MalformedRuleError{Schema: s.Name, Field: name, Reason: "params-style group requires both Fields and Parse"}
			}
			cg.fields = append([]string(nil), g.Fields...)
			cg.parse = g.Parse
		} else {
			if g.Pattern == "" || g.ParseMatches == nil {
				return nil, &MalformedRuleError{Schema: s.Name, Field: name, Reason: "regex-style group requires both Pattern and ParseMatches"}
			}
			re, err := regexp.Compile(g.Pattern)
			if err != nil {
				return nil, &MalformedRuleError{Schema: s.Name, Field: name, Reason: "invalid group pattern: " + err.Error()}
			}
			cg.re = re
			cg.parseMatches = g.ParseMatches
		}
		groups = append(groups, cg)
	}
	return groups, nil
}

// sortedKeys returns a map's keys in ascending order so every walk over a
// schema or input level is deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
